// Command versus plays a bracket in the terminal from a catalog file.
//
// The file is either a JSON catalog export ({"title", "items"}) or plain text
// with one candidate per line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/catalog"
	"github.com/Dosada05/versusite/models"
	"github.com/Dosada05/versusite/tui"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "versus:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("versus", flag.ContinueOnError)
	title := fs.String("title", "", "tournament title (defaults to the catalog title)")
	seed := fs.Uint64("seed", 0, "shuffle seed for a reproducible bracket (0 = random)")
	keepOrder := fs.Bool("keep-order", false, "pair items in file order instead of shuffling")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: versus [-title T] [-seed N] [-keep-order] <catalog.json|items.txt>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	ids := brackets.UUIDGenerator{}
	c, err := loadCatalog(ids, data)
	if err != nil {
		return err
	}
	if *title != "" {
		c.Title = *title
	}

	opts := []brackets.Option{brackets.WithIDGenerator(ids)}
	switch {
	case *keepOrder:
		opts = append(opts, brackets.WithShuffler(brackets.KeepOrder))
	case *seed != 0:
		opts = append(opts, brackets.WithShuffler(brackets.SeededShuffler(*seed)))
	}
	generator := brackets.NewSingleEliminationGenerator(opts...)

	tournament, err := generator.CreateTournament(catalog.TitleOrDefault(c.Title), c.Items)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(tui.New(generator, tournament), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if t := final.(tui.Model).Tournament(); t.Completed {
		fmt.Printf("%s champion: %s\n", t.Title, t.Winner.DisplayName())
	}
	return nil
}

// loadCatalog accepts a JSON export or falls back to one item per line.
func loadCatalog(ids brackets.IDGenerator, data []byte) (models.Catalog, error) {
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		c, err := catalog.Unmarshal(data)
		if err != nil {
			return models.Catalog{}, err
		}
		c.Items, err = catalog.Normalize(ids, c.Items)
		return c, err
	}
	return models.Catalog{Items: catalog.ParseBulkText(ids, string(data))}, nil
}
