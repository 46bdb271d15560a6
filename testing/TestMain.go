// Package testing forces test mode for packages that start runtime services.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("STOCKDESK_TEST_MODE", "1")
		if os.Getenv("INVENTORY_API_URL") == "" {
			_ = os.Setenv("INVENTORY_API_URL", "http://127.0.0.1:0/api/v1")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
