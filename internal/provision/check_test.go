package provision

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lcgerke/gamecache-secrets/internal/constants"
)

func checkNames(r *Report) map[string]CheckResult {
	byName := make(map[string]CheckResult, len(r.Checks))
	for _, c := range r.Checks {
		byName[c.Name] = c
	}
	return byName
}

func TestCheck_AllPass(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, `github_repo = "alice/games"`)
	f.writeToken(t, constants.PreferredTokenDir, `{"access_token": "`+testToken+`"}`)

	report := f.provisioner(t).Check(context.Background())
	if !report.OK() {
		t.Fatalf("Check() failed: %+v", report.Checks)
	}

	checks := checkNames(report)
	for _, name := range []string{"crypto", "token", "repository", "authentication", "public key"} {
		if _, ok := checks[name]; !ok {
			t.Errorf("missing check %q", name)
		}
	}
	if !strings.Contains(checks["authentication"].Detail, "alice") {
		t.Errorf("authentication detail = %q, want login", checks["authentication"].Detail)
	}
	if puts := f.stub.recordedPuts(); len(puts) != 0 {
		t.Errorf("Check() wrote secrets: %v", puts)
	}
}

func TestCheck_NoToken(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, `github_repo = "alice/games"`)

	report := f.provisioner(t).Check(context.Background())
	if report.OK() {
		t.Fatal("Check() should fail without a token")
	}
	if checks := checkNames(report); checks["token"].OK {
		t.Error("token check should fail")
	}
	if n := f.stub.requestCount(); n != 0 {
		t.Errorf("stub received %d requests, want 0", n)
	}
}

func TestCheck_LegacyTokenNotMigrated(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, `github_repo = "alice/games"`)
	f.writeToken(t, constants.LegacyTokenDir, `{"access_token": "`+testToken+`"}`)

	report := f.provisioner(t).Check(context.Background())
	if !checkNames(report)["token"].OK {
		t.Fatalf("token check failed: %+v", report.Checks)
	}

	preferred := filepath.Join(f.home, constants.PreferredTokenDir, constants.TokenFileName)
	if _, err := os.Stat(preferred); !os.IsNotExist(err) {
		t.Errorf("Check() should not migrate the token, stat err = %v", err)
	}
}

func TestCheck_PublicKeyUnavailable(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, `github_repo = "alice/games"`)
	f.writeToken(t, constants.PreferredTokenDir, `{"access_token": "`+testToken+`"}`)
	f.stub.keyStatus = http.StatusForbidden

	report := f.provisioner(t).Check(context.Background())
	if report.OK() {
		t.Fatal("Check() should fail when the public key cannot be fetched")
	}
	checks := checkNames(report)
	if checks["public key"].OK {
		t.Error("public key check should fail")
	}
	if !checks["authentication"].OK {
		t.Error("authentication check should still pass")
	}
}
