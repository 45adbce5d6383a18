// Offline export/import against a local SQLite store. Useful for moving
// an account between installations without running the server.
//
//	transfer-tool -db ./data/codex.db export user@example.com out.json
//	transfer-tool -db ./data/codex.db import backup.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"codex/auth"
	"codex/storage"
	"codex/transfer"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	dbPath := flag.String("db", "./data/codex.db", "path to the SQLite store")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
	}

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	store, err := storage.NewGorm(db)
	if err != nil {
		log.Fatal("Failed to initialize key-value store:", err)
	}

	accounts := auth.NewManager(store, auth.Bcrypt{})
	codec := transfer.NewCodec(store, accounts)

	switch args[0] {
	case "export":
		if len(args) != 3 {
			usage()
		}
		email, outPath := args[1], args[2]

		account, err := accounts.FindByEmail(email)
		if err != nil {
			log.Fatalf("Failed to look up %s: %v", email, err)
		}
		doc, err := codec.Export(account)
		if err != nil {
			log.Fatal("Export failed:", err)
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			log.Fatal("Failed to encode export document:", err)
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			log.Fatal("Failed to write export file:", err)
		}
		fmt.Printf("✓ Exported %s to %s\n", account.Email, outPath)

	case "import":
		if len(args) != 2 {
			usage()
		}
		account, err := codec.ImportFile(args[1])
		if err != nil {
			log.Fatal("Import failed:", err)
		}
		fmt.Printf("✓ Imported account %s (%s)\n", account.Email, account.ID)
		fmt.Println("  The restored account has a placeholder credential; reset it before logging in.")

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  transfer-tool [-db path] export <email> <out.json>")
	fmt.Fprintln(os.Stderr, "  transfer-tool [-db path] import <in.json>")
	os.Exit(2)
}
