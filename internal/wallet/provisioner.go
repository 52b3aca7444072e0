package wallet

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "baldguard/internal/errors"
	"baldguard/internal/service"
)

// WalletCreator provisions an address for a user.
type WalletCreator interface {
	CreateWallet(ctx context.Context, userID uint) (string, error)
}

// Provisioner runs wallet creation as a best-effort background job. Jobs are
// queued on a bounded channel and handled by a single worker; a full queue
// drops the job. Every failure is logged and absorbed: nothing here ever
// reaches a login response.
type Provisioner struct {
	creator WalletCreator
	users   service.UserService
	jobs    chan uint
	wg      sync.WaitGroup

	attempts   int
	retryDelay time.Duration
	jobTimeout time.Duration
}

// NewProvisioner builds the provisioner and starts its worker.
func NewProvisioner(creator WalletCreator, users service.UserService, queueSize int) *Provisioner {
	if queueSize <= 0 {
		queueSize = 64
	}
	p := &Provisioner{
		creator:    creator,
		users:      users,
		jobs:       make(chan uint, queueSize),
		attempts:   3,
		retryDelay: 2 * time.Second,
		jobTimeout: 30 * time.Second,
	}
	p.wg.Add(1)
	go p.worker()
	return p
}

// Enqueue schedules provisioning for the user without blocking the caller.
func (p *Provisioner) Enqueue(userID uint) {
	select {
	case p.jobs <- userID:
	default:
		log.Printf("wallet: queue full, dropping provisioning job for user %d", userID)
	}
}

// Close stops accepting jobs and waits for the worker to drain the queue.
func (p *Provisioner) Close() {
	close(p.jobs)
	p.wg.Wait()
}

func (p *Provisioner) worker() {
	defer p.wg.Done()
	for userID := range p.jobs {
		p.provision(userID)
	}
}

// provision creates and assigns a wallet. The write-once rule in the user
// directory makes repeat invocations for the same user harmless.
func (p *Provisioner) provision(userID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()

	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("wallet: user %d lookup failed: %v", userID, err)
		return
	}
	if user.WalletAddress != nil {
		log.Printf("wallet: user %d already has wallet %s", userID, *user.WalletAddress)
		return
	}

	var address string
	for attempt := 1; ; attempt++ {
		address, err = p.creator.CreateWallet(ctx, userID)
		if err == nil {
			break
		}
		if attempt >= p.attempts {
			log.Printf("wallet: creation failed for user %d after %d attempts: %v", userID, attempt, err)
			return
		}
		log.Printf("wallet: creation attempt %d for user %d failed, retrying: %v", attempt, userID, err)
		select {
		case <-time.After(p.retryDelay):
		case <-ctx.Done():
			log.Printf("wallet: provisioning for user %d canceled: %v", userID, ctx.Err())
			return
		}
	}

	if err := p.users.AssignWallet(ctx, userID, address); err != nil {
		if errors.Is(err, apperrors.ErrWalletAlreadyAssigned) {
			log.Printf("wallet: user %d was assigned a wallet concurrently", userID)
			return
		}
		log.Printf("wallet: failed to store address for user %d: %v", userID, err)
		return
	}
	log.Printf("wallet: assigned %s to user %d", address, userID)
}
