package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xavierca1/leadflow/internal/eval"
	"github.com/xavierca1/leadflow/internal/usecase"
)

var (
	suitePath  string
	exportPath string
	confirm    bool

	newLead usecase.CreateLeadInput

	outreachInput usecase.GenerateOutreachInput
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the qualify + outreach workflow over sample leads",
	Long: `Each sample is stored as a new lead, qualified and given an outreach draft.
The report is printed as JSON. Without --suite the built-in samples are used.`,
	RunE: runEval,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all leads as CSV",
	RunE:  runExport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every lead and interaction",
	RunE:  runClear,
}

var addLeadCmd = &cobra.Command{
	Use:   "add-lead",
	Short: "Validate and store a lead",
	RunE:  runAddLead,
}

var qualifyCmd = &cobra.Command{
	Use:   "qualify <lead-id>",
	Short: "Score a lead with the model",
	Args:  cobra.ExactArgs(1),
	RunE:  runQualify,
}

var outreachCmd = &cobra.Command{
	Use:   "outreach <lead-id>",
	Short: "Draft a first-touch message for a lead",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutreach,
}

func init() {
	evalCmd.Flags().StringVar(&suitePath, "suite", "", "YAML file with samples and outreach settings")

	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "file to write (default stdout)")

	clearCmd.Flags().BoolVar(&confirm, "yes", false, "confirm deleting all data")

	f := addLeadCmd.Flags()
	f.StringVar(&newLead.Name, "name", "", "first and last name")
	f.StringVar(&newLead.Email, "email", "", "email address")
	f.StringVar(&newLead.Company, "company", "", "company")
	f.StringVar(&newLead.Title, "title", "", "job title")
	f.StringVar(&newLead.Website, "website", "", "company website (http:// or https://)")
	f.StringVar(&newLead.LinkedIn, "linkedin", "", "LinkedIn profile URL")
	f.StringVar(&newLead.Notes, "notes", "", "free-form notes")

	f = outreachCmd.Flags()
	f.StringVar(&outreachInput.Channel, "channel", usecase.DefaultChannel, "email, linkedin or twitter")
	f.StringVar(&outreachInput.Tone, "tone", usecase.DefaultTone, "message tone")
	f.StringVar(&outreachInput.ValueProp, "value-prop", usecase.DefaultValueProp, "what we offer")
}

func runEval(cmd *cobra.Command, args []string) error {
	suite := eval.DefaultSuite()
	if suitePath != "" {
		var err error
		if suite, err = eval.LoadSuite(suitePath); err != nil {
			return err
		}
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return printJSON(cmd.OutOrStdout(), a.workflow.Run(cmd.Context(), suite))
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if exportPath != "" {
		f, err := os.Create(exportPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	n, err := a.export.Execute(cmd.Context(), out)
	if err != nil {
		return err
	}
	if exportPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d leads to %s\n", n, exportPath)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !confirm {
		return fmt.Errorf("refusing to delete all data without --yes")
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.clear.Execute(cmd.Context())
}

func runAddLead(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	lead, err := a.createLead.Execute(cmd.Context(), newLead)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), lead)
}

func runQualify(cmd *cobra.Command, args []string) error {
	id, err := parseLeadID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.qualify.Execute(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func runOutreach(cmd *cobra.Command, args []string) error {
	id, err := parseLeadID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	input := outreachInput
	input.LeadID = id
	out, err := a.outreach.Execute(cmd.Context(), input)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func parseLeadID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("lead id must be a positive integer, got %q", s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
