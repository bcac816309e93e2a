package usecase

import "sync"

// ユーザー単位のチェックアウト排他（プロセス内のみ）。
// 同一ユーザーの同時チェックアウトが同じカートから二重注文を作るのを防ぐ。
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLockEntry
}

type userLockEntry struct {
	mu sync.Mutex
	//保持中＋待機中の数。0になったらmapから消す。
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: map[string]*userLockEntry{}}
}

// lockはuserIDのミューテックスを取り、解放用の関数を返す。
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	e, ok := l.locks[userID]
	if !ok {
		e = &userLockEntry{}
		l.locks[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
