package fetch

import (
	"context"

	"github.com/go-git/go-git/v5"
)

// CloneFunc clones the repository at url into dest.
type CloneFunc func(ctx context.Context, url, dest string) error

// GitClone is the default CloneFunc. It clones with go-git, so no git binary is needed for
// remote repositories.
func GitClone(ctx context.Context, url, dest string) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL: url,
	})
	return err
}
