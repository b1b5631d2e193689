package cpu

import "testing"

func TestSetupWorkerAffinity(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for id := range 4 {
			release := SetupWorkerAffinity(id * 1000)
			release()
		}
	}()
	<-done
}
