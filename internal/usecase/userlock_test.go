package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks_EntryRemovedAfterRelease(t *testing.T) {
	l := newUserLocks()

	unlock := l.lock("u1")
	l.mu.Lock()
	assert.Len(t, l.locks, 1)
	l.mu.Unlock()

	unlock()

	//最後の解放でmapからも消える（ユーザー数ぶん増え続けない）
	l.mu.Lock()
	assert.Len(t, l.locks, 0)
	l.mu.Unlock()
}

func TestUserLocks_WaiterKeepsEntryAlive(t *testing.T) {
	l := newUserLocks()

	unlock1 := l.lock("u1")

	acquired := make(chan func())
	go func() {
		acquired <- l.lock("u1")
	}()

	//待機者がいる間はエントリが残る
	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		e, ok := l.locks["u1"]
		return ok && e.refs == 2
	}, time.Second, time.Millisecond)

	unlock1()
	unlock2 := <-acquired
	unlock2()

	l.mu.Lock()
	assert.Len(t, l.locks, 0)
	l.mu.Unlock()
}

func TestUserLocks_SerializesSameUser(t *testing.T) {
	l := newUserLocks()

	var inCritical int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.lock("u1")
			defer unlock()
			inCritical++
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, inCritical)
}
