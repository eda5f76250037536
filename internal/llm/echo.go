package llm

import (
	"context"

	"github.com/quillworks/localagent/internal/common"
)

// echoPrefixLimit bounds how much of the prompt the echo provider repeats.
const echoPrefixLimit = 1000

// Echo is a local debug provider: it returns a bounded prefix of the prompt
// instead of calling any service. Useful for tests and offline runs.
type Echo struct{}

func (Echo) Generate(_ context.Context, prompt string, _ Options) (string, error) {
	return "[LOCAL_ECHO]\n" + common.TruncateRunes(prompt, echoPrefixLimit), nil
}
