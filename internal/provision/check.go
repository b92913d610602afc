package provision

import (
	"context"
	"fmt"

	"github.com/lcgerke/gamecache-secrets/internal/remote"
	"github.com/lcgerke/gamecache-secrets/internal/sealedbox"
)

// CheckResult is the outcome of one setup check
type CheckResult struct {
	Name   string
	OK     bool
	Detail string
}

// Report collects the checks of a Check run
type Report struct {
	Checks []CheckResult
}

// OK reports whether every check passed
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, ok bool, format string, args ...interface{}) {
	r.Checks = append(r.Checks, CheckResult{Name: name, OK: ok, Detail: fmt.Sprintf(format, args...)})
}

// Check verifies the setup without writing any secret or migrating the
// token. Checks that depend on a failed one are skipped.
func (p *Provisioner) Check(ctx context.Context) *Report {
	report := &Report{}

	if err := sealedbox.SelfTest(); err != nil {
		report.add("crypto", false, "%v", err)
	} else {
		report.add("crypto", true, "sealed-box self-test passed")
	}

	tok, err := p.resolver.Resolve(ctx)
	if err != nil {
		report.add("token", false, "%v", err)
		return report
	}
	if p.resolver.NeedsMigration(tok) {
		report.add("token", true, "found in %s (legacy location, will be migrated by enable)", tok.Source)
	} else {
		report.add("token", true, "found in %s", tok.Source)
	}

	repo, err := p.repo.Repository()
	if err != nil {
		report.add("repository", false, "%v", err)
		return report
	}
	report.add("repository", true, "%s (from %s)", repo, p.repo.Path())

	platform, err := p.opts.NewPlatform(repo, tok.AccessToken, remote.ClientOptions{
		APIURL:  p.opts.APIURL,
		Timeout: p.opts.Timeout,
		Metrics: p.opts.Metrics,
	})
	if err != nil {
		report.add("api", false, "%v", err)
		return report
	}

	stop := p.out.Spin("Checking token with GitHub...")
	login, err := platform.AuthenticatedUser(ctx)
	stop()
	if err != nil {
		report.add("authentication", false, "%v", err)
	} else {
		report.add("authentication", true, "authenticated as %s", login)
	}

	stop = p.out.Spin(fmt.Sprintf("Getting public key for %s...", repo))
	key, err := platform.GetPublicKey(ctx)
	stop()
	if err != nil {
		report.add("public key", false, "%v", err)
		return report
	}
	if _, err := sealedbox.DecodePublicKey(key.Key); err != nil {
		report.add("public key", false, "key %s is unusable: %v", key.KeyID, err)
		return report
	}
	report.add("public key", true, "key_id %s", key.KeyID)

	return report
}
