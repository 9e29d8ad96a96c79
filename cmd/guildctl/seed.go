package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/guildhall/api/internal/repository"
	"github.com/forgo/guildhall/api/internal/seed"
	"github.com/forgo/guildhall/api/internal/service"
	"github.com/forgo/guildhall/api/migrations"
)

var (
	seedFile    string
	seedMigrate bool
	seedJSON    bool
)

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file (default: built-in sample)")
	seedCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "apply the schema before seeding")
	seedCmd.Flags().BoolVar(&seedJSON, "json", false, "print the result as JSON")
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data",
	Long: `Load reference vocabularies, achievements, users, locations,
campaigns and quests. Entries are matched on natural keys (email, name,
title), so an entry that already exists is left alone and seeding twice
creates nothing new.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := loadSeedData()
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		_, db, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if seedMigrate {
			if _, err := migrations.Apply(ctx, db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		seeder := service.NewSeederService(service.SeedRepositories{
			Users:      repository.NewUserRepository(db),
			Locations:  repository.NewLocationRepository(db),
			References: repository.NewReferenceRepository(db),
			Campaigns:  repository.NewCampaignRepository(db),
			Quests:     repository.NewQuestRepository(db),
		}, 0)

		result, err := seeder.Seed(ctx, data)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}

		out := cmd.OutOrStdout()
		if seedJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Fprintln(out, "Seed complete")
		fmt.Fprintln(out, "=============")
		fmt.Fprintf(out, "References:   %d\n", result.References)
		fmt.Fprintf(out, "Achievements: %d\n", result.Achievements)
		fmt.Fprintf(out, "Users:        %d new\n", result.Users)
		fmt.Fprintf(out, "Locations:    %d new\n", result.Locations)
		fmt.Fprintf(out, "Campaigns:    %d new\n", result.Campaigns)
		fmt.Fprintf(out, "Quests:       %d new\n", result.Quests)
		fmt.Fprintf(out, "Took:         %dms\n", result.Duration)
		return nil
	},
}

func loadSeedData() (*seed.Data, error) {
	if seedFile == "" {
		return seed.Sample()
	}
	return seed.LoadFile(seedFile)
}
