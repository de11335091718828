package backend

import (
	"context"
	"fmt"
	"sync"
)

// MemoryService is an in-process Service for tests and the demo server.
type MemoryService struct {
	mu       sync.Mutex
	users    map[int64]User
	policies map[int64][]Policy
	nextID   int64
	err      error
	creates  []CreatePolicyRequest
}

var _ Service = (*MemoryService)(nil)

func NewMemoryService() *MemoryService {
	return &MemoryService{
		users:    make(map[int64]User),
		policies: make(map[int64][]Policy),
	}
}

// WithError makes every later call fail with err.
func (m *MemoryService) WithError(err error) *MemoryService {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MemoryService) PutUser(u User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MemoryService) PutPolicy(p Policy) Policy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(p)
}

func (m *MemoryService) putLocked(p Policy) Policy {
	m.nextID++
	if p.ID == 0 {
		p.ID = m.nextID
	}
	m.policies[p.UserID] = append(m.policies[p.UserID], p)
	return p
}

// Creates returns the create requests seen so far.
func (m *MemoryService) Creates() []CreatePolicyRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CreatePolicyRequest(nil), m.creates...)
}

func (m *MemoryService) FetchPolicies(_ context.Context, userID int64) ([]Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]Policy(nil), m.policies[userID]...), nil
}

func (m *MemoryService) CreatePolicy(_ context.Context, req CreatePolicyRequest) (Policy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return Policy{}, m.err
	}
	m.creates = append(m.creates, req)
	return m.putLocked(Policy{
		UserID:          req.UserID,
		PolicyNumber:    req.PolicyNumber,
		PolicyType:      req.PolicyType,
		InsurerName:     req.InsurerName,
		PremiumAmount:   req.PremiumAmount,
		SumAssured:      req.SumAssured,
		PolicyStartDate: req.PolicyStartDate,
		PolicyEndDate:   req.PolicyEndDate,
		Status:          req.Status,
	}), nil
}

func (m *MemoryService) FetchUser(_ context.Context, userID int64) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return User{}, m.err
	}
	u, ok := m.users[userID]
	if !ok {
		return User{}, &StatusError{Code: 404, Body: fmt.Sprintf("user %d not found", userID)}
	}
	return u, nil
}
