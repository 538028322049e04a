package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sentiment-lab/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "run:", "Prefix to scan (run: or prediction:<run-id>:)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Detail", "Scores"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				kind, detail, scores, err := repositories.Describe(key, v)
				if err != nil {
					fmt.Printf("Error decoding key %s: %v\n", key, err)
					return nil
				}
				table.Append([]string{key, kind, detail, scores})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	table.Render()
}
