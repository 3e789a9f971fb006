// cachectl inspects and clears the persisted keyword profile cache.
//
// Usage:
//
//	DATA_PATH=~/shelfmind cachectl status
//	DATA_PATH=~/shelfmind cachectl drop
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/store"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "status" && os.Args[1] != "drop") {
		fmt.Fprintln(os.Stderr, "usage: cachectl status|drop")
		os.Exit(2)
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		log.Fatal("DATA_PATH is not set")
	}
	if home, err := os.UserHomeDir(); err == nil && len(dataPath) > 1 && dataPath[:2] == "~/" {
		dataPath = filepath.Join(home, dataPath[2:])
	}

	quiet := logger.New(logger.Config{Level: logger.ParseLevel("error")})
	st, err := store.New(filepath.Join(dataPath, "graph"), quiet)
	if err != nil {
		log.Fatalf("Failed to open artifact store: %v", err)
	}
	defer st.Close()

	switch os.Args[1] {
	case "status":
		status(st)
	case "drop":
		if err := st.DeleteKeywords(); err != nil {
			log.Fatalf("Failed to drop keyword cache: %v", err)
		}
		fmt.Println("Keyword cache dropped")
	}
}

func status(st *store.Store) {
	hasGraph, err := st.HasGraph()
	if err != nil {
		log.Fatalf("Failed to check graph: %v", err)
	}
	fmt.Printf("graph present:    %v\n", hasGraph)

	profiles, err := st.LoadKeywords()
	switch {
	case err == nil:
		fmt.Printf("keyword profiles: %d\n", len(profiles))
	case errors.Is(err, errors.ErrNotFound):
		fmt.Println("keyword profiles: none")
	case errors.Is(err, errors.ErrIncompatible):
		fmt.Println("keyword profiles: incompatible schema (drop and rebuild)")
	default:
		log.Fatalf("Failed to load keyword cache: %v", err)
	}
}
