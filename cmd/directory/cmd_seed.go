package main

import (
	"fmt"

	"github.com/mlg-/factory-girl-book-club/database"
	"github.com/mlg-/factory-girl-book-club/seed"
	"github.com/mlg-/factory-girl-book-club/server"
	v1database "github.com/mlg-/factory-girl-book-club/v1/database"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample book clubs, members and pokemasters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := server.OpenDatabase(cmd.Context(), database.NewDatabaseConfig(), true)
			if err != nil {
				return err
			}
			defer database.Close(db)

			summary, err := seed.Run(cmd.Context(), v1database.NewGormRepository(db))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary.Skipped {
				fmt.Fprintln(out, "database already seeded")
				return nil
			}
			fmt.Fprintf(out, "seeded %d book clubs, %d members, %d pokemasters, %d pokemons\n",
				summary.BookClubs, summary.Members, summary.Pokemasters, summary.Pokemons)
			return nil
		},
	}
}
