package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Deletes the stored history and saved window",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := resetDatabase(viper.GetString("database"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func resetDatabase(dbPath string) error {
	db, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	hasData, err := db.HasData()
	if err != nil {
		return err
	}
	if !hasData {
		fmt.Println("Nothing imported yet")
	}

	if err := db.Reset(); err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}
	if hasData {
		fmt.Println("Deleted stored history")
	}
	return nil
}
