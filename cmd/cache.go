package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/nameforge/internal/config"
	"github.com/kozaktomas/nameforge/internal/geo"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache management commands",
	Long:  `Commands for inspecting and clearing the local GPS location cache.`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cached GPS locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		cache := geo.LoadCache(cfg.Cache.Path)

		fmt.Printf("Cache file: %s (%d entries)\n", cfg.Cache.Path, cache.Len())
		keys := cache.Keys()
		sort.Strings(keys)
		for _, key := range keys {
			place, _ := cache.Get(key)
			fmt.Printf("  %s  %s\n", key, place)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the GPS location cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := os.Remove(cfg.Cache.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Println("Cache is already empty")
				return nil
			}
			return fmt.Errorf("failed to delete cache: %w", err)
		}
		fmt.Printf("Deleted %s\n", cfg.Cache.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
