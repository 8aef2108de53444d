package lifecycle

import (
	"app/base/fresh"
	"app/base/utils"
	"app/tasks"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// end-to-end against a running `platform` mock instance
func TestDeactivateOnPlatform(t *testing.T) {
	utils.SkipWithoutPlatform(t)

	utils.CoreCfg.FreshAddress = utils.Getenv("FRESH_ADDRESS", "")
	utils.CoreCfg.FreshAPIKey = utils.Getenv("FRESH_API_KEY", "test-key")
	client := fresh.CreateClient(false)
	ctx := context.Background()

	// requester 2 is seeded active with a years-old last login
	report := tasks.NewReport("deactivate", "", "")
	deactivateOne(ctx, client, 2, report)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 1, report.Succeeded)

	utils.AssertWait(t, 10, func() bool {
		requester, err := client.GetRequester(ctx, 2)
		return err == nil && !requester.GetActive()
	})
}
