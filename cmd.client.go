package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const clientUsage = `usage: book-library client <command> [flags]

commands:
  list                                   print all and available books
  available                              print available books only
  add    -title T -author A [-available]  add a new book
  edit   -id N [-title T] [-author A] [-available=true|false]
  delete -id N -yes                      delete a book`

// RunClientCommand runs one client view action against the api then prints the lists.
func RunClientCommand(ctx context.Context, config *Config, args []string, out io.Writer) error {
	logger := NewConsoleLogger(config)
	defer func() { _ = logger.Sync() }()
	view := NewView(logger, NewBooksClient(config.Client.BaseURL, config.Client.Timeout))
	return runClient(ctx, view, args, out)
}

func runClient(ctx context.Context, view *View, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New(clientUsage)
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet("client "+cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	id := fs.Int("id", 0, "book id")
	title := fs.String("title", "", "book title")
	author := fs.String("author", "", "book author")
	available := fs.Bool("available", true, "book availability")
	yes := fs.Bool("yes", false, "confirm the deletion")
	if err := fs.Parse(rest); err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := view.Refresh(ctx); err != nil {
		return err
	}

	switch cmd {
	case "list":
		printBooks(out, "All Books", view.Books(), true)
		printBooks(out, "Available Books", view.AvailableBooks(), false)
		return nil

	case "available":
		printBooks(out, "Available Books", view.AvailableBooks(), false)
		return nil

	case "add":
		view.SetNewBookForm(BookForm{Title: *title, Author: *author, Available: *available})
		book, err := view.AddBook(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "added book %d\n", book.ID)

	case "edit":
		if !set["id"] {
			return errors.New("edit requires -id")
		}
		current, ok := findInList(view.Books(), *id)
		if !ok {
			return fmt.Errorf("book %d not found", *id)
		}
		view.StartEdit(current)
		if set["title"] {
			current.Title = *title
		}
		if set["author"] {
			current.Author = *author
		}
		if set["available"] {
			current.Available = *available
		}
		view.SetEditBook(current)
		book, err := view.UpdateBook(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated book %d\n", book.ID)

	case "delete":
		if !set["id"] {
			return errors.New("delete requires -id")
		}
		book, err := view.DeleteBook(ctx, *id, func(int) bool { return *yes })
		if err != nil {
			return err
		}
		if book.ID == 0 {
			fmt.Fprintf(out, "deletion of book %d not confirmed, use -yes\n", *id)
			return nil
		}
		fmt.Fprintf(out, "deleted book %d\n", book.ID)

	default:
		return fmt.Errorf("unknown client command %q\n%s", cmd, clientUsage)
	}

	printBooks(out, "All Books", view.Books(), true)
	printBooks(out, "Available Books", view.AvailableBooks(), false)
	return nil
}

func findInList(books []Book, id int) (Book, bool) {
	if idx := FindBook(books, id); idx != -1 {
		return books[idx], true
	}
	return Book{}, false
}

func printBooks(out io.Writer, header string, books []Book, withStatus bool) {
	fmt.Fprintf(out, "%s\n%s\n", header, strings.Repeat("-", len(header)))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, b := range books {
		if withStatus {
			status := "Not Available"
			if b.Available {
				status = "Available"
			}
			fmt.Fprintf(tw, "%d\t%s by %s\t%s\n", b.ID, b.Title, b.Author, status)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s by %s\n", b.ID, b.Title, b.Author)
	}
	_ = tw.Flush()
	fmt.Fprintln(out)
}
