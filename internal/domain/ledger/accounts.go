package ledger

// MonetaryAccount holds a user's running gold totals. All values are in
// gold, re-rounded to two decimal places after every update.
type MonetaryAccount struct {
	User                string
	MonetaryScore       float64
	TreasuryValue       float64
	StashValueDeposited float64
	StashValueWithdrawn float64
	LastActive          string
}

// ActivityAccount holds a user's flat participation counters.
type ActivityAccount struct {
	User                     string
	ActivityScore            int
	UpgradesQueued           int
	MissionsStarted          int
	InvitesSent              int
	InvitesAccepted          int
	DailyLoginParticipations int
	LastActive               string
}

// MonetaryBook tracks monetary accounts in first-touch order. The order is
// kept explicitly so downstream ranking has a reproducible tie-break.
type MonetaryBook struct {
	accounts map[string]*MonetaryAccount
	order    []string
}

func newMonetaryBook() *MonetaryBook {
	return &MonetaryBook{accounts: make(map[string]*MonetaryAccount)}
}

// account returns the user's account, creating it on first touch.
func (b *MonetaryBook) account(user string) *MonetaryAccount {
	if a, ok := b.accounts[user]; ok {
		return a
	}
	a := &MonetaryAccount{User: user}
	b.accounts[user] = a
	b.order = append(b.order, user)
	return a
}

// Get returns the account for user, if one was created during aggregation.
func (b *MonetaryBook) Get(user string) (*MonetaryAccount, bool) {
	a, ok := b.accounts[user]
	return a, ok
}

// Len returns the number of accounts in the book.
func (b *MonetaryBook) Len() int { return len(b.accounts) }

// Accounts returns all accounts in first-touch order.
func (b *MonetaryBook) Accounts() []*MonetaryAccount {
	out := make([]*MonetaryAccount, 0, len(b.order))
	for _, user := range b.order {
		out = append(out, b.accounts[user])
	}
	return out
}

func (a *MonetaryAccount) touch(ts string) {
	if ts != "" && (a.LastActive == "" || ts > a.LastActive) {
		a.LastActive = ts
	}
}

// ActivityBook tracks activity accounts in first-touch order.
type ActivityBook struct {
	accounts map[string]*ActivityAccount
	order    []string
}

func newActivityBook() *ActivityBook {
	return &ActivityBook{accounts: make(map[string]*ActivityAccount)}
}

func (b *ActivityBook) account(user string) *ActivityAccount {
	if a, ok := b.accounts[user]; ok {
		return a
	}
	a := &ActivityAccount{User: user}
	b.accounts[user] = a
	b.order = append(b.order, user)
	return a
}

// Get returns the account for user, if one was created during aggregation.
func (b *ActivityBook) Get(user string) (*ActivityAccount, bool) {
	a, ok := b.accounts[user]
	return a, ok
}

// Len returns the number of accounts in the book.
func (b *ActivityBook) Len() int { return len(b.accounts) }

// Accounts returns all accounts in first-touch order.
func (b *ActivityBook) Accounts() []*ActivityAccount {
	out := make([]*ActivityAccount, 0, len(b.order))
	for _, user := range b.order {
		out = append(out, b.accounts[user])
	}
	return out
}

func (a *ActivityAccount) touch(ts string) {
	if ts != "" && (a.LastActive == "" || ts > a.LastActive) {
		a.LastActive = ts
	}
}
