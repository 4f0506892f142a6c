// Command wasteisland is a thin demonstration CLI over store.Database,
// in the spirit of the teacher codebase's cmd/demo: a manual-testing
// aid exercising put/get/list/drop from the outside, not an engineered
// product surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skogkatt/wasteisland/internal/bench"
	"github.com/skogkatt/wasteisland/store"
)

func main() {
	var dbPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "wasteisland",
		Short: "a content-addressed key-value store over local disk",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "./wasteland.db", "database directory")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	openDB := func() (*store.Database, error) {
		cfg := store.DefaultConfig(dbPath)
		if verbose {
			log, err := zap.NewDevelopment()
			if err == nil {
				cfg.Logger = log
			}
		}
		return store.Open(cfg)
	}

	putCmd := &cobra.Command{
		Use:   "put [file]",
		Short: "store a payload, printing its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			h, err := db.Put(payload)
			if err != nil {
				return err
			}
			fmt.Println(h)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [hash]",
		Short: "retrieve a payload by its hash, printing it to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			payload, err := db.Get(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(payload)
			return err
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list every stored hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			hashes, err := db.List()
			if err != nil {
				return err
			}
			for _, h := range hashes {
				fmt.Println(h)
			}
			return nil
		},
	}

	dropCmd := &cobra.Command{
		Use:   "drop",
		Short: "remove the database directory entirely",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return db.Drop()
		},
	}

	var benchN, benchSize int
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "put/get a synthetic workload and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			metrics, err := bench.Run(db, benchN, benchSize)
			if err != nil {
				return err
			}
			fmt.Println(metrics.String())
			return nil
		},
	}
	benchCmd.Flags().IntVar(&benchN, "n", 1000, "number of payloads to put and get")
	benchCmd.Flags().IntVar(&benchSize, "size", 1024, "payload size in bytes")

	root.AddCommand(putCmd, getCmd, listCmd, dropCmd, benchCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wasteisland:", err)
		os.Exit(1)
	}
}
