package profile

import (
	"strings"
	"testing"
)

func TestPathsAreScopedToProfile(t *testing.T) {
	paths := []string{
		CredentialsPath("alpha"),
		CacheDBPath("alpha"),
		LockPath("alpha"),
		LogPath("alpha"),
	}
	for _, p := range paths {
		if !strings.Contains(p, "profiles/alpha") && !strings.Contains(p, `profiles\alpha`) {
			t.Errorf("path %q is not under the alpha profile dir", p)
		}
	}
}

func TestConfigPathIsGlobal(t *testing.T) {
	if strings.Contains(ConfigPath(), "profiles") {
		t.Errorf("config path %q should not be profile-scoped", ConfigPath())
	}
}
