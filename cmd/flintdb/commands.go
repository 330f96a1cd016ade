package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kjk/flintdb"
	"github.com/kjk/flintdb/store"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/toon-format/toon-go"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [db] [key]",
		Short: "Prints the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(args[0])
			if err != nil {
				return err
			}
			v, ok, err := db.Get(args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key '%s' not found in '%s'", args[1], db.Path())
			}
			return printValue(cmd.OutOrStdout(), v)
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [db] [key] [value]",
		Short: "Sets the value of a key. JSON values are stored decoded, anything else as a string",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(args[0])
			if err != nil {
				return err
			}
			return db.Set(args[1], parseValue(args[2]))
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [db] [key]",
		Short: "Deletes a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(args[0])
			if err != nil {
				return err
			}
			return db.Delete(args[1])
		},
	}
	flushCmd = &cobra.Command{
		Use:   "flush [db]",
		Short: "Deletes all keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(args[0])
			if err != nil {
				return err
			}
			return db.Flush()
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [db]",
		Short: "Prints all keys in file order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(args[0])
			if err != nil {
				return err
			}
			keys, err := db.Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	allCmd = &cobra.Command{
		Use:   "all [db]",
		Short: "Prints all keys and values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDB(args[0])
			if err != nil {
				return err
			}
			all, err := db.All()
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return printAll(cmd.OutOrStdout(), all, format)
		},
	}
)

func addCommands(root *cobra.Command) {
	allCmd.Flags().String("format", "json", WrapString("Output format (json, toon)"))

	root.AddCommand(getCmd)
	root.AddCommand(setCmd)
	root.AddCommand(delCmd)
	root.AddCommand(flushCmd)
	root.AddCommand(keysCmd)
	root.AddCommand(allCmd)
}

func loadDB(name string) (*store.Database, error) {
	conf, err := configFromViper()
	if err != nil {
		return nil, err
	}
	return flintdb.Load(name, conf)
}

// parseValue decodes s as JSON if it's valid JSON, otherwise returns s
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func printValue(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	d, err := json.Marshal(v)
	if err != nil {
		// gob can hold values JSON can't represent
		_, err = fmt.Fprintf(w, "%#v\n", v)
		return err
	}
	_, err = fmt.Fprintln(w, string(d))
	return err
}

func printAll(w io.Writer, all map[string]any, format string) error {
	switch format {
	case "json":
		d, err := json.Marshal(all)
		if err != nil {
			return err
		}
		_, err = w.Write(pretty.Pretty(d))
		return err
	case "toon":
		if len(all) == 0 {
			return nil
		}
		d, err := toon.Marshal(all)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(d))
		return err
	}
	return fmt.Errorf("unknown format '%s', must be json or toon", format)
}
