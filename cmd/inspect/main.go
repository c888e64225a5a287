package main

import (
	"chat-rooms/domain"
	"chat-rooms/internal"
	"chat-rooms/repositories"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	dbPath := flag.String("db", cfg.BadgerFilepath, "Path to badger DB")
	prefix := flag.String("prefix", cfg.Prefix, "Raw key prefix to scan")
	rooms := flag.Bool("rooms", false, "Print rooms with their members instead of raw keys")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()

	if *rooms {
		return printRooms(os.Stdout, db)
	}
	return printKeys(os.Stdout, db, *prefix)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printKeys(w io.Writer, db *badger.DB, prefix string) error {
	rows, err := internal.Scan(db, prefix, nil)
	if err != nil {
		return err
	}
	table := newTable(w, []string{"Key", "Namespace", "Entity ID", "Detail"})
	for _, row := range rows {
		table.Append([]string{row.Key, row.Namespace, row.EntityID, row.Detail})
	}
	table.Render()
	return nil
}

func printRooms(w io.Writer, db *badger.DB) error {
	rooms, err := repositories.NewBadgerRoomRepository(db).List(context.Background())
	if err != nil {
		return err
	}
	table := newTable(w, []string{"Room ID", "Name", "Members", "Created"})
	for _, room := range rooms {
		members := lo.Map(room.Members.Slice(), func(id domain.UserID, _ int) string { return string(id) })
		table.Append([]string{
			string(room.ID),
			room.Name,
			strconv.Itoa(len(members)) + " (" + strings.Join(members, ", ") + ")",
			room.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
	return nil
}
