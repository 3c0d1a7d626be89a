// Package memuow is an in-memory UnitOfWork for usecase tests. It backs every
// repository with slices guarded by one mutex, so "transactions" serialize the
// way row locks do in MySQL. Not for production use.
package memuow

import (
	"context"
	"sort"
	"sync"
	"time"

	creditDomain "defi-credit-backend/internal/domain/credit"
	depositDomain "defi-credit-backend/internal/domain/deposit"
	loanDomain "defi-credit-backend/internal/domain/loan"
	poolDomain "defi-credit-backend/internal/domain/pool"
	"defi-credit-backend/internal/domain/uow"
	userDomain "defi-credit-backend/internal/domain/user"

	"gorm.io/gorm"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

type store struct {
	mu     sync.Mutex
	nextID uint64
	users  []userDomain.User
	pools  []poolDomain.Pool
	loans  []loanDomain.Loan
	depos  []depositDomain.Deposit
	points []creditDomain.TrustPoint
	scores []creditDomain.CreditScore
}

type UoW struct{ s *store }

func New() *UoW { return &UoW{s: &store{nextID: 1}} }

func (u *UoW) repos() uow.Repos {
	return uow.Repos{
		Users:       &userRepo{s: u.s},
		Pools:       &poolRepo{s: u.s},
		Loans:       &loanRepo{s: u.s},
		Deposits:    &depositRepo{s: u.s},
		TrustPoints: &trustRepo{s: u.s},
		Scores:      &scoreRepo{s: u.s},
	}
}

func (u *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	return fn(u.repos())
}

func (u *UoW) WithinScoreTx(ctx context.Context, userID uint64, fn func(r uow.Repos, s *creditDomain.CreditScore) error) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	r := u.repos()
	var cur *creditDomain.CreditScore
	for i := range u.s.scores {
		if u.s.scores[i].UserID == userID {
			sc := u.s.scores[i]
			cur = &sc
			break
		}
	}
	if cur == nil {
		u.s.scores = append(u.s.scores, creditDomain.CreditScore{ID: u.s.id(), UserID: userID})
		sc := u.s.scores[len(u.s.scores)-1]
		cur = &sc
	}
	return fn(r, cur)
}

// Seed helpers for test arrangement.

func (u *UoW) SeedUser(usr userDomain.User) userDomain.User {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if usr.ID == 0 {
		usr.ID = u.s.id()
	}
	u.s.users = append(u.s.users, usr)
	return usr
}

func (u *UoW) SeedPool(p poolDomain.Pool) poolDomain.Pool {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if p.ID == 0 {
		p.ID = u.s.id()
	}
	u.s.pools = append(u.s.pools, p)
	return p
}

func (u *UoW) SeedLoan(l loanDomain.Loan) loanDomain.Loan {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if l.ID == 0 {
		l.ID = u.s.id()
	}
	u.s.loans = append(u.s.loans, l)
	return l
}

func (u *UoW) SeedDeposit(d depositDomain.Deposit) depositDomain.Deposit {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if d.ID == 0 {
		d.ID = u.s.id()
	}
	u.s.depos = append(u.s.depos, d)
	return d
}

// Snapshot accessors for assertions.

func (u *UoW) TrustPoints() []creditDomain.TrustPoint {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	out := make([]creditDomain.TrustPoint, len(u.s.points))
	copy(out, u.s.points)
	return out
}

func (u *UoW) Score(userID uint64) int {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for i := range u.s.scores {
		if u.s.scores[i].UserID == userID {
			return u.s.scores[i].Score
		}
	}
	return 0
}

func (u *UoW) Loan(loanID string) *loanDomain.Loan {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for i := range u.s.loans {
		if u.s.loans[i].LoanID == loanID {
			l := u.s.loans[i]
			return &l
		}
	}
	return nil
}

func (u *UoW) User(id uint64) *userDomain.User {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for i := range u.s.users {
		if u.s.users[i].ID == id {
			usr := u.s.users[i]
			return &usr
		}
	}
	return nil
}

func (u *UoW) Pool(asset string) *poolDomain.Pool {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for i := range u.s.pools {
		if u.s.pools[i].Asset == asset {
			p := u.s.pools[i]
			return &p
		}
	}
	return nil
}

func (s *store) id() uint64 {
	v := s.nextID
	s.nextID++
	return v
}

// ---- user ----

type userRepo struct{ s *store }

func (r *userRepo) Create(ctx context.Context, u *userDomain.User) error {
	u.ID = r.s.id()
	r.s.users = append(r.s.users, *u)
	return nil
}

func (r *userRepo) Save(ctx context.Context, u *userDomain.User) error {
	for i := range r.s.users {
		if r.s.users[i].ID == u.ID {
			r.s.users[i] = *u
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	for i := range r.s.users {
		if r.s.users[i].Email == email {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ---- pool ----

type poolRepo struct{ s *store }

func (r *poolRepo) Create(ctx context.Context, p *poolDomain.Pool) error {
	p.ID = r.s.id()
	r.s.pools = append(r.s.pools, *p)
	return nil
}

func (r *poolRepo) Save(ctx context.Context, p *poolDomain.Pool) error {
	for i := range r.s.pools {
		if r.s.pools[i].ID == p.ID {
			r.s.pools[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *poolRepo) GetByAsset(ctx context.Context, asset string) (*poolDomain.Pool, error) {
	for i := range r.s.pools {
		if r.s.pools[i].Asset == asset {
			p := r.s.pools[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *poolRepo) GetByAssetForUpdate(ctx context.Context, asset string) (*poolDomain.Pool, error) {
	return r.GetByAsset(ctx, asset)
}

func (r *poolRepo) List(ctx context.Context) ([]poolDomain.Pool, error) {
	out := make([]poolDomain.Pool, len(r.s.pools))
	copy(out, r.s.pools)
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out, nil
}

// ---- loan ----

type loanRepo struct{ s *store }

func (r *loanRepo) Create(ctx context.Context, l *loanDomain.Loan) error {
	l.ID = r.s.id()
	r.s.loans = append(r.s.loans, *l)
	return nil
}

func (r *loanRepo) Save(ctx context.Context, l *loanDomain.Loan) error {
	for i := range r.s.loans {
		if r.s.loans[i].ID == l.ID {
			r.s.loans[i] = *l
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *loanRepo) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	for i := range r.s.loans {
		if r.s.loans[i].LoanID == loanID {
			l := r.s.loans[i]
			return &l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *loanRepo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *loanRepo) ListByUser(ctx context.Context, userID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	for i := range r.s.loans {
		if r.s.loans[i].UserID == userID {
			out = append(out, r.s.loans[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BorrowedAt.After(out[j].BorrowedAt) })
	return out, nil
}

func (r *loanRepo) ListUnsettledByUser(ctx context.Context, userID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	for i := range r.s.loans {
		if r.s.loans[i].UserID == userID && r.s.loans[i].Status != loanDomain.StatusCompleted {
			out = append(out, r.s.loans[i])
		}
	}
	return out, nil
}

func (r *loanRepo) ListUnsettled(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	for i := range r.s.loans {
		if r.s.loans[i].Status != loanDomain.StatusCompleted {
			out = append(out, r.s.loans[i])
		}
	}
	return out, nil
}

func (r *loanRepo) ListCompletedByUser(ctx context.Context, userID uint64, limit int) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	for i := range r.s.loans {
		l := r.s.loans[i]
		if l.UserID == userID && l.Status == loanDomain.StatusCompleted && l.RepaidAt != nil {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RepaidAt.After(*out[j].RepaidAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *loanRepo) CountOpenedSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var n int64
	for i := range r.s.loans {
		l := r.s.loans[i]
		if l.UserID == userID && l.Status != loanDomain.StatusCompleted && !l.BorrowedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ---- deposit ----

type depositRepo struct{ s *store }

func (r *depositRepo) Create(ctx context.Context, d *depositDomain.Deposit) error {
	d.ID = r.s.id()
	r.s.depos = append(r.s.depos, *d)
	return nil
}

func (r *depositRepo) Save(ctx context.Context, d *depositDomain.Deposit) error {
	for i := range r.s.depos {
		if r.s.depos[i].ID == d.ID {
			r.s.depos[i] = *d
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *depositRepo) GetByDepositID(ctx context.Context, depositID string) (*depositDomain.Deposit, error) {
	for i := range r.s.depos {
		if r.s.depos[i].DepositID == depositID {
			d := r.s.depos[i]
			return &d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *depositRepo) GetByDepositIDForUpdate(ctx context.Context, depositID string) (*depositDomain.Deposit, error) {
	return r.GetByDepositID(ctx, depositID)
}

func (r *depositRepo) ListByUser(ctx context.Context, userID uint64) ([]depositDomain.Deposit, error) {
	var out []depositDomain.Deposit
	for i := range r.s.depos {
		if r.s.depos[i].UserID == userID {
			out = append(out, r.s.depos[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepositedAt.After(out[j].DepositedAt) })
	return out, nil
}

func (r *depositRepo) ListOpenByUser(ctx context.Context, userID uint64) ([]depositDomain.Deposit, error) {
	var out []depositDomain.Deposit
	for i := range r.s.depos {
		if r.s.depos[i].UserID == userID && r.s.depos[i].WithdrawAt == nil {
			out = append(out, r.s.depos[i])
		}
	}
	return out, nil
}

func (r *depositRepo) ExistsInRange(ctx context.Context, userID uint64, from, to time.Time) (bool, error) {
	for i := range r.s.depos {
		d := r.s.depos[i]
		if d.UserID == userID && !d.DepositedAt.Before(from) && d.DepositedAt.Before(to) {
			return true, nil
		}
	}
	return false, nil
}

// ---- trust points ----

type trustRepo struct{ s *store }

func (r *trustRepo) Append(ctx context.Context, tp *creditDomain.TrustPoint) error {
	tp.ID = r.s.id()
	r.s.points = append(r.s.points, *tp)
	return nil
}

func (r *trustRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]creditDomain.TrustPoint, error) {
	var out []creditDomain.TrustPoint
	for i := range r.s.points {
		if r.s.points[i].UserID == userID {
			out = append(out, r.s.points[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *trustRepo) CountByReasonSince(ctx context.Context, userID uint64, reason creditDomain.Reason, since time.Time) (int64, error) {
	var n int64
	for i := range r.s.points {
		p := r.s.points[i]
		if p.UserID == userID && p.Reason == reason && !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *trustRepo) CountByReasonForLoan(ctx context.Context, loanID string, reason creditDomain.Reason) (int64, error) {
	var n int64
	for i := range r.s.points {
		p := r.s.points[i]
		if p.LoanID == loanID && p.Reason == reason {
			n++
		}
	}
	return n, nil
}

// ---- scores ----

type scoreRepo struct{ s *store }

func (r *scoreRepo) Create(ctx context.Context, sc *creditDomain.CreditScore) error {
	sc.ID = r.s.id()
	r.s.scores = append(r.s.scores, *sc)
	return nil
}

func (r *scoreRepo) Ensure(ctx context.Context, userID uint64) error {
	for i := range r.s.scores {
		if r.s.scores[i].UserID == userID {
			return nil
		}
	}
	r.s.scores = append(r.s.scores, creditDomain.CreditScore{ID: r.s.id(), UserID: userID})
	return nil
}

func (r *scoreRepo) GetByUserID(ctx context.Context, userID uint64) (*creditDomain.CreditScore, error) {
	for i := range r.s.scores {
		if r.s.scores[i].UserID == userID {
			sc := r.s.scores[i]
			return &sc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *scoreRepo) GetByUserIDForUpdate(ctx context.Context, userID uint64) (*creditDomain.CreditScore, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *scoreRepo) AddDelta(ctx context.Context, userID uint64, delta int) error {
	for i := range r.s.scores {
		if r.s.scores[i].UserID == userID {
			r.s.scores[i].Score += delta
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
