package service

import "sync"

type recorderSpy struct {
	mu      sync.Mutex
	allowed map[string]int
	denied  map[string]int
	grants  map[string]int
}

func newRecorderSpy() *recorderSpy {
	return &recorderSpy{
		allowed: make(map[string]int),
		denied:  make(map[string]int),
		grants:  make(map[string]int),
	}
}

func (r *recorderSpy) AccessDecision(path string, allowed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if allowed {
		r.allowed[path]++
	} else {
		r.denied[path]++
	}
}

func (r *recorderSpy) GrantCreated(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[kind]++
}
