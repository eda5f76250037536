package agent

import "fmt"

const emailSummaryPrompt = `You are a helpful assistant. Summarize the following email in 2 sentences and list up to 3 action items (short bullet points).

Email:
%s

Result:
1) Summary:
- <two-sentence summary>
2) Actions:
- <action 1>
- <action 2>
`

const resumeTailorPrompt = `You are an expert resume writer. The job posting is below and the candidate's current resume is below.
Produce:
- A 2-line profile summary tailored to the job.
- 6 concise accomplishment-based bullets for the most relevant experience, formatted as resume bullets.
- A short 3-paragraph cover letter.

Job Posting:
%s

Resume:
%s

Output JSON with keys: profile, bullets (array), cover_letter
`

func buildEmailSummaryPrompt(snippet string) string {
	return fmt.Sprintf(emailSummaryPrompt, snippet)
}

func buildResumeTailorPrompt(jobText, resumeText string) string {
	return fmt.Sprintf(resumeTailorPrompt, jobText, resumeText)
}
