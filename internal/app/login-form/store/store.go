package store

import (
	"sync"
)

// Store 登录视图持有的状态容器。视图挂载时创建，卸载时 Close。
// 只有 AuthController 写入；读取与订阅对展示层开放
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]chan State
	nextID int
	closed bool
}

// New 创建处于 Idle 的状态容器
func New() *Store {
	return &Store{
		state: Idle{},
		subs:  make(map[int]chan State),
	}
}

// Get 返回当前状态
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set 替换当前状态并通知订阅者。Close 之后的写入被忽略
func (s *Store) Set(next State) {
	s.Update(func(State) State { return next })
}

// Update 原子地基于当前状态计算新状态。fn 返回 nil 表示不修改
func (s *Store) Update(fn func(current State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.state
	}
	next := fn(s.state)
	if next == nil {
		return s.state
	}
	s.state = next
	for _, ch := range s.subs {
		publish(ch, next)
	}
	return next
}

// Subscribe 订阅状态变化。通道只保留最新的未读状态；cancel 后通道关闭
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Close 结束容器生命周期，关闭所有订阅
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// publish 非阻塞投递，旧的未读状态被替换
func publish(ch chan State, state State) {
	select {
	case ch <- state:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- state:
	default:
	}
}
