package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/kjk/flintdb/serializer"
	"github.com/kjk/flintdb/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

func setupFlags(cmd *cobra.Command) {
	def := store.DefaultConfig()
	flags := cmd.PersistentFlags()

	flags.String("dir", def.Dir, WrapString("Directory with database files"))
	flags.String("ext", "", WrapString(fmt.Sprintf("Extension of database files (default %s, %s with --gzip)", store.DefaultExt, store.DefaultGzipExt)))
	flags.Bool("gzip", false, WrapString("Database files are gzip compressed. There is no file locking for compressed files"))
	flags.Bool("cache", def.Cache, WrapString("Keep records in memory after the first read"))
	flags.String("swap-memory-limit", humanize.IBytes(uint64(def.SwapMemoryLimit)), WrapString("Rewrites use a temporary file above this size (e.g. 512KiB, 4MB)"))
	flags.String("serializer", "gob", WrapString("Serializer of values (gob, json)"))
	flags.String("separator", string(rune(def.Separator)), WrapString("Character between key and value"))
	flags.Bool("verbose", false, WrapString("Log details of every operation"))
	flags.String("log-dir", "", WrapString("Also write logs and events to daily files in this directory"))
	flags.Bool("metrics", false, WrapString("Print metrics in Prometheus format to stderr after the command"))
}

// configFromViper builds a store config from flags, env variables and .env files
func configFromViper() (*store.Config, error) {
	s, err := serializer.ByName(viper.GetString("serializer"))
	if err != nil {
		return nil, err
	}
	limit, err := humanize.ParseBytes(viper.GetString("swap-memory-limit"))
	if err != nil {
		return nil, fmt.Errorf("invalid swap-memory-limit: %w", err)
	}
	sep := viper.GetString("separator")
	if len(sep) != 1 {
		return nil, fmt.Errorf("separator must be a single character, got '%s'", sep)
	}
	return &store.Config{
		Dir:             viper.GetString("dir"),
		Ext:             viper.GetString("ext"),
		Gzip:            viper.GetBool("gzip"),
		Cache:           viper.GetBool("cache"),
		SwapMemoryLimit: int64(limit),
		Serializer:      s,
		Separator:       sep[0],
	}, nil
}
