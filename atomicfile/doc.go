/*
Package atomicfile replaces the content of a file so that readers either
see the old content or the complete new content, never a partial write.

Data goes to a temporary file next to the destination. Close() syncs it
and renames it over the destination. If Write() or Close() fails, or
RemoveIfNotClosed() is called first, the temporary file is deleted and
the destination is not modified.

	func replaceFile(path string, r io.Reader) error {
		w, err := atomicfile.New(path)
		if err != nil {
			return err
		}
		// a no-op after a successful Close()
		defer w.RemoveIfNotClosed()

		if _, err = w.ReadFrom(r); err != nil {
			return err
		}
		return w.Close()
	}

flintdb uses it to commit a rewritten data file.
*/
package atomicfile
