package quota

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountLocksSerializeSameAccount(t *testing.T) {
	locks := NewAccountLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("acct-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestAccountLocksAreIndependentAcrossAccounts(t *testing.T) {
	locks := NewAccountLocks()

	unlockA := locks.Lock("acct-a")
	defer unlockA()

	// Holding one account's lock must not block another account.
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("acct-b")
		unlockB()
		close(done)
	}()
	<-done
}
