package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
	"github.com/nakelabs/kasa-alert-connect/internal/service"
)

var agencyCmd = &cobra.Command{
	Use:   "agency",
	Short: "Manage agency accounts",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var agencyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create one agency account",
	Args:  cobra.NoArgs,
	RunE:  runAgencyCreate,
}

var agencySeedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Create agency accounts listed in a YAML file, skipping existing emails",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgencySeed,
}

var agencyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agency accounts",
	Args:  cobra.NoArgs,
	RunE:  runAgencyList,
}

var (
	agencyName     string
	agencyEmail    string
	agencyPassword string
	agencyRole     string
)

func init() {
	agencyCreateCmd.Flags().StringVar(&agencyName, "name", "", "Agency display name")
	agencyCreateCmd.Flags().StringVar(&agencyEmail, "email", "", "Login email")
	agencyCreateCmd.Flags().StringVar(&agencyPassword, "password", "", "Login password (defaults to $KASA_AGENCY_PASSWORD)")
	agencyCreateCmd.Flags().StringVar(&agencyRole, "role", service.DefaultRole, "Agency role")
	_ = agencyCreateCmd.MarkFlagRequired("name")
	_ = agencyCreateCmd.MarkFlagRequired("email")

	agencyCmd.AddCommand(agencyCreateCmd)
	agencyCmd.AddCommand(agencySeedCmd)
	agencyCmd.AddCommand(agencyListCmd)
}

// registrar is the part of the auth service the agency commands use
type registrar interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.Agency, error)
}

// SeedFile is the YAML layout read by `agency seed`
type SeedFile struct {
	Agencies []SeedAgency `yaml:"agencies"`
}

type SeedAgency struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

func runAgencyCreate(cmd *cobra.Command, args []string) error {
	password := agencyPassword
	if password == "" {
		password = os.Getenv("KASA_AGENCY_PASSWORD")
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	auth := service.NewAuthService(e.store, e.cfg.Auth, e.log)
	agency, err := auth.Register(cmd.Context(), agencyName, agencyEmail, password, agencyRole)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created agency %s (%s)\n", agency.ID, agency.Email)
	return nil
}

func runAgencySeed(cmd *cobra.Command, args []string) error {
	seed, err := loadSeedFile(args[0])
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	auth := service.NewAuthService(e.store, e.cfg.Auth, e.log)
	created, skipped, err := seedAgencies(cmd.Context(), auth, seed, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seed complete: %d created, %d skipped\n", created, skipped)
	return nil
}

func runAgencyList(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	agencies, err := e.store.ListAgencies(cmd.Context())
	if err != nil {
		return err
	}

	printAgencies(cmd.OutOrStdout(), agencies)
	return nil
}

func loadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(seed.Agencies) == 0 {
		return nil, fmt.Errorf("seed file %s lists no agencies", path)
	}
	return &seed, nil
}

// seedAgencies registers every entry; an email that already exists is skipped, any other error stops the run
func seedAgencies(ctx context.Context, reg registrar, seed *SeedFile, out io.Writer) (created, skipped int, err error) {
	for _, a := range seed.Agencies {
		agency, err := reg.Register(ctx, a.Name, a.Email, a.Password, a.Role)
		if errors.Is(err, domain.ErrDuplicateAgency) {
			fmt.Fprintf(out, "skip   %s (already exists)\n", a.Email)
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("failed to seed %s: %w", a.Email, err)
		}
		fmt.Fprintf(out, "create %s %s\n", agency.Email, agency.ID)
		created++
	}
	return created, skipped, nil
}

func printAgencies(out io.Writer, agencies []domain.Agency) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tCREATED")
	for _, a := range agencies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.Role, a.CreatedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}
