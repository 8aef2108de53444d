package tasks

import (
	"app/base"
	"app/base/utils"
	"testing"
)

func TestHandleContextCancel(t *testing.T) {
	called := make(chan struct{})
	HandleContextCancel(func() { close(called) })

	base.CancelContext()

	utils.AssertWait(t, 1, func() bool {
		select {
		case <-called:
			return true
		default:
			return false
		}
	})
}
