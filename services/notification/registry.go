package notification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	subscriptionRepo "carbooking/database/repository/subscription"
	"carbooking/models"
)

// Registry holds the delivery targets a broadcast fans out to.
type Registry interface {
	Register(ctx context.Context, target models.DeliveryTarget) error
	All(ctx context.Context) ([]models.DeliveryTarget, error)
}

// MemoryRegistry keeps targets for the life of the process. Every registration is
// appended, duplicates included, whatever its shape.
type MemoryRegistry struct {
	mu      sync.RWMutex
	targets []models.DeliveryTarget
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

func (r *MemoryRegistry) Register(_ context.Context, target models.DeliveryTarget) error {
	if err := validateTarget(target); err != nil {
		return err
	}
	owned := append(models.DeliveryTarget(nil), target...)

	r.mu.Lock()
	r.targets = append(r.targets, owned)
	r.mu.Unlock()
	return nil
}

// All returns a snapshot; later registrations do not show up in it.
func (r *MemoryRegistry) All(_ context.Context) ([]models.DeliveryTarget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.DeliveryTarget, len(r.targets))
	copy(out, r.targets)
	return out, nil
}

// DurableRegistry persists targets and deduplicates them by identity.
type DurableRegistry struct {
	Repo subscriptionRepo.SubscriptionRepository
}

func NewDurableRegistry(repo subscriptionRepo.SubscriptionRepository) *DurableRegistry {
	return &DurableRegistry{Repo: repo}
}

func (r *DurableRegistry) Register(ctx context.Context, target models.DeliveryTarget) error {
	if err := validateTarget(target); err != nil {
		return err
	}
	id, err := TargetIdentity(target)
	if err != nil {
		return err
	}
	return r.Repo.Upsert(ctx, models.PushSubscription{
		ID:        id,
		Target:    string(target),
		CreatedAt: time.Now().UTC(),
	})
}

func (r *DurableRegistry) All(ctx context.Context) ([]models.DeliveryTarget, error) {
	subs, err := r.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.DeliveryTarget, 0, len(subs))
	for _, s := range subs {
		out = append(out, models.DeliveryTarget(s.Target))
	}
	return out, nil
}

// TargetIdentity hashes the part of a target that names the receiving device: the web
// push endpoint, the FCM token, or the whole document in canonical form.
func TargetIdentity(target models.DeliveryTarget) (string, error) {
	var doc any
	if err := json.Unmarshal(target, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}

	obj, _ := doc.(map[string]any)
	var key string
	if endpoint, ok := obj["endpoint"].(string); ok && endpoint != "" {
		key = "endpoint:" + endpoint
	} else if token, ok := obj["token"].(string); ok && token != "" {
		key = "token:" + token
	} else {
		// encoding/json sorts map keys, which makes this canonical.
		canonical, err := json.Marshal(doc)
		if err != nil {
			return "", err
		}
		key = "doc:" + string(canonical)
	}

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]), nil
}

// validateTarget only requires well-formed JSON. Deliverers reject shapes they cannot use.
func validateTarget(target models.DeliveryTarget) error {
	if !json.Valid(target) {
		return ErrInvalidTarget
	}
	return nil
}
