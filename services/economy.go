package services

import (
	"classroom-economy-system/models"

	"gorm.io/gorm"
)

// EconomyService is the boundary the rest of the application calls. It
// composes the four economy services and assembles the read models the
// dashboards need. All writes still go through the individual services.
type EconomyService struct {
	DB       *gorm.DB
	Ledger   *LedgerService
	Bounties *BountyService
	Store    *StoreService
	Goals    *GoalService
	Resolver *RewardResolverService
}

func NewEconomyService(db *gorm.DB) *EconomyService {
	ledger := NewLedgerService(db)
	return &EconomyService{
		DB:       db,
		Ledger:   ledger,
		Bounties: NewBountyService(db, ledger),
		Store:    NewStoreService(db, ledger),
		Goals:    NewGoalService(db, ledger),
		Resolver: NewRewardResolverService(db),
	}
}

// StudentCurrency is one roster row of the class currency dashboard.
type StudentCurrency struct {
	StudentID      string `json:"student_id"`
	DisplayName    string `json:"display_name"`
	Balance        int64  `json:"balance"`
	LifetimeEarned int64  `json:"lifetime_earned"`
	LifetimeSpent  int64  `json:"lifetime_spent"`
}

// ClassCurrency is the per-class wallet rollup.
type ClassCurrency struct {
	ClassID      string            `json:"class_id"`
	Students     []StudentCurrency `json:"students"`
	TotalBalance int64             `json:"total_balance"`
	TotalEarned  int64             `json:"total_earned"`
	TotalSpent   int64             `json:"total_spent"`
	StudentCount int               `json:"student_count"`
}

// StudentSummary bundles everything the student detail view shows.
type StudentSummary struct {
	Wallet           *models.Wallet       `json:"wallet"`
	Transactions     []models.Transaction `json:"transactions"`
	ActiveGoals      []models.Goal        `json:"active_goals"`
	PendingPurchases []models.Purchase    `json:"pending_purchases"`
}

// ActiveBounties returns the bounties a class currently sees.
func (s *EconomyService) ActiveBounties(classID string) ([]models.Bounty, error) {
	return s.Bounties.List(classID, true)
}

// PendingPurchases returns the teacher's approval queue.
func (s *EconomyService) PendingPurchases() ([]models.Purchase, error) {
	return s.Store.PendingPurchases()
}

// CurrencyData joins the class roster mirror with wallets and sums class
// totals for the currency dashboard.
func (s *EconomyService) CurrencyData(classID string) (*ClassCurrency, error) {
	var roster []models.StudentMirror
	if err := s.DB.Where("class_id = ? AND is_active = ?", classID, true).
		Order("display_name ASC").
		Find(&roster).Error; err != nil {
		return nil, err
	}

	studentIDs := make([]string, 0, len(roster))
	for _, st := range roster {
		studentIDs = append(studentIDs, st.StudentID)
	}

	wallets, err := s.Ledger.GetWallets(studentIDs)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]models.Wallet, len(wallets))
	for _, w := range wallets {
		byStudent[w.StudentID] = w
	}

	data := &ClassCurrency{ClassID: classID, Students: make([]StudentCurrency, 0, len(roster))}
	for _, st := range roster {
		w := byStudent[st.StudentID]
		data.Students = append(data.Students, StudentCurrency{
			StudentID:      st.StudentID,
			DisplayName:    st.DisplayName,
			Balance:        w.Balance,
			LifetimeEarned: w.LifetimeEarned,
			LifetimeSpent:  w.LifetimeSpent,
		})
		data.TotalBalance += w.Balance
		data.TotalEarned += w.LifetimeEarned
		data.TotalSpent += w.LifetimeSpent
	}
	data.StudentCount = len(roster)
	return data, nil
}

// Summary assembles the combined student detail view in one call.
func (s *EconomyService) Summary(studentID string) (*StudentSummary, error) {
	wallet, err := s.Ledger.GetWallet(studentID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.Ledger.GetTransactions(studentID, 20)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals.ActiveGoals(studentID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.Store.StudentPurchases(studentID)
	if err != nil {
		return nil, err
	}
	pending := purchases[:0]
	for _, p := range purchases {
		if p.Status == models.PurchasePending {
			pending = append(pending, p)
		}
	}

	return &StudentSummary{
		Wallet:           wallet,
		Transactions:     transactions,
		ActiveGoals:      goals,
		PendingPurchases: pending,
	}, nil
}
