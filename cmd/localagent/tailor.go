package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/agent"
	"github.com/quillworks/localagent/internal/cli"
)

func newTailorCmd() *cobra.Command {
	var (
		jobFile    string
		resumeFile string
		record     bool
	)

	cmd := &cobra.Command{
		Use:   "tailor",
		Short: "Tailor a resume to a job posting",
		Long:  "Reads a job posting and a resume from files and generates a tailored profile, resume bullets and a cover letter.",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobText, err := os.ReadFile(jobFile)
			if err != nil {
				return fmt.Errorf("reading job posting: %w", err)
			}
			resumeText, err := os.ReadFile(resumeFile)
			if err != nil {
				return fmt.Errorf("reading resume: %w", err)
			}

			d, err := buildDeps("text")
			if err != nil {
				return err
			}
			if record {
				if err := d.unlockFromTerminal(func() ([]byte, error) {
					return cli.GetPassword(os.Stdout)
				}); err != nil {
					return fmt.Errorf("unlocking journal: %w", err)
				}
			}

			out, err := d.agent.TailorResume(cmd.Context(), string(jobText), string(resumeText))
			if err != nil {
				var upe *agent.UnparsableOutputError
				if errors.As(err, &upe) {
					fmt.Println("Model output was not valid JSON; raw output follows:")
					fmt.Println(upe.Raw)
					return nil
				}
				return err
			}

			fmt.Printf("PROFILE:\n%s\n\nBULLETS:\n", out.Profile)
			for _, b := range out.Bullets {
				fmt.Printf("- %s\n", b)
			}
			fmt.Printf("\nCOVER LETTER:\n%s\n", out.CoverLetter)
			return nil
		},
	}

	cmd.Flags().StringVarP(&jobFile, "job", "j", "", "Path to a file with the job posting text (required)")
	cmd.Flags().StringVarP(&resumeFile, "resume", "", "", "Path to a file with the resume text (required)")
	cmd.Flags().BoolVarP(&record, "record", "r", false, "Unlock the journal and record this run")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("resume")

	return cmd
}
