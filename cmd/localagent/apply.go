package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillworks/localagent/internal/webform"
)

func newApplyCmd() *cobra.Command {
	var (
		site       string
		jobURL     string
		resumePath string
		name       string
		email      string
		autoSubmit bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Pre-fill a job application form in a browser",
		Long:  "Opens the job URL in Chrome and fills applicant details using best-effort site connectors. Without --submit, the form is left open for review.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps("text")
			if err != nil {
				return err
			}

			filler := webform.New(d.logger)
			err = filler.Apply(cmd.Context(), site, webform.Application{
				JobURL:         jobURL,
				ResumePath:     resumePath,
				ApplicantName:  name,
				ApplicantEmail: email,
				AutoSubmit:     autoSubmit,
			})
			if err != nil {
				return fmt.Errorf("filling form (known sites: %s): %w",
					strings.Join(webform.Sites(), ", "), err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&site, "site", "s", "", "Site connector to use (required)")
	cmd.Flags().StringVarP(&jobURL, "url", "u", "", "Job posting URL (required)")
	cmd.Flags().StringVarP(&resumePath, "resume", "", "", "Path to the resume file to attach")
	cmd.Flags().StringVarP(&name, "name", "", "", "Applicant name")
	cmd.Flags().StringVarP(&email, "email", "", "", "Applicant email (required)")
	cmd.Flags().BoolVarP(&autoSubmit, "submit", "", false, "Click the final submit button")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
