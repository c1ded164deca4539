package advisor

import (
	"context"
	"fmt"

	"github.com/gzhole/cryptadvisor/internal/classifier"
	"github.com/gzhole/cryptadvisor/internal/disk"
)

const (
	unknownPlatform = "Unknown OS"

	classifierFailureNote = "(Advanced AI analysis failed; using heuristic recommendations.)"
)

// Prompt renders the natural-language description of the disk that is sent
// to the classifier. platform is used verbatim; callers resolve the default
// with SystemContext.PlatformOr.
func Prompt(info disk.Info, f disk.Features, platform string) string {
	return fmt.Sprintf(
		"Optimize encryption for disk %s: %.1fGB, %s, %s. User OS context: %s. "+
			"User seems to prioritize security over raw speed. Suggest an encryption approach.",
		info.Caption, f.SizeGB, f.FileSystem, f.MediaLabel(), platform,
	)
}

// consult calls cl and converts a panic into an error, so a misbehaving
// classifier degrades to the heuristic result.
func consult(ctx context.Context, cl classifier.Classifier, prompt string) (r classifier.Ranking, err error) {
	defer func() {
		if p := recover(); p != nil {
			r = nil
			err = fmt.Errorf("classifier %s panicked: %v", cl.Name(), p)
		}
	}()
	return cl.Classify(ctx, prompt, classifier.Labels())
}
