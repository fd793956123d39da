package core

// DefaultCategories returns the categories seeded into a fresh ledger.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Salary", Kind: Income},
		{Name: "Investments", Kind: Income},
		{Name: "Gifts", Kind: Income},
		{Name: "Food", Kind: Expense},
		{Name: "Transport", Kind: Expense},
		{Name: "Bills", Kind: Expense},
		{Name: "Entertainment", Kind: Expense},
		{Name: "Health", Kind: Expense},
		{Name: SentinelCategory, Kind: Expense},
	}
}
