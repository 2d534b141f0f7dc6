package interfaces

import "context"

// ICompletionClient abstracts the text-completion collaborator.
//
// The response carries no structured-output guarantee: it is untrusted
// free text that callers must extract from and validate.

type ICompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
