package client

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

type BalanceStore interface {
	GetBalance(ctx context.Context) (*Balance, error)
	CreateWithdrawal(ctx context.Context, amount decimal.Decimal) (*Withdrawal, error)
	UpdateBankAccount(ctx context.Context, account string) (*Profile, error)
}

type BalanceState struct {
	Balance     *Balance
	BankAccount string
	Loading     bool
	Err         error
}

// BalancePanel 主办方余额与提现，本地校验只为提示，服务端会再校验
type BalancePanel struct {
	store    BalanceStore
	notifier Notifier

	mu    sync.Mutex
	state BalanceState
	gen   uint64
}

func NewBalancePanel(store BalanceStore, notifier Notifier) *BalancePanel {
	return &BalancePanel{store: store, notifier: orDiscard(notifier)}
}

// SetBankAccount 用资料页已加载的收款账户初始化
func (p *BalancePanel) SetBankAccount(account string) {
	p.mu.Lock()
	p.state.BankAccount = account
	p.mu.Unlock()
}

// Refresh 失败时保留上一次的余额
func (p *BalancePanel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state.Loading = true
	p.mu.Unlock()

	b, err := p.store.GetBalance(ctx)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return nil
	}
	p.state.Loading = false
	if err != nil {
		p.state.Err = err
		p.mu.Unlock()
		p.notifier.Notify(failure("获取余额失败", err))
		return err
	}
	p.state.Err = nil
	p.state.Balance = b
	p.mu.Unlock()
	return nil
}

// ParseAmount 金额必须是正数，最多两位小数
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() || !d.Equal(d.Round(2)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Withdraw 金额非法或超过可用余额时不发请求
func (p *BalancePanel) Withdraw(ctx context.Context, amount string) (*Withdrawal, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		p.notifier.Notify(invalid("提现金额无效", ReasonInvalidAmount, err))
		return nil, err
	}

	p.mu.Lock()
	available := decimal.Zero
	if p.state.Balance != nil {
		available = p.state.Balance.AvailableBalance
	}
	p.mu.Unlock()
	if d.GreaterThan(available) {
		p.notifier.Notify(invalid("可用余额不足", ReasonInsufficientBalance, ErrInsufficientBalance))
		return nil, ErrInsufficientBalance
	}

	w, err := p.store.CreateWithdrawal(ctx, d)
	if err != nil {
		n := failure("提现申请失败", err)
		if IsCode(err, CodeInsufficientBalance) {
			n.Reason = ReasonInsufficientBalance
		}
		p.notifier.Notify(n)
		return nil, err
	}
	p.notifier.Notify(success("提现申请已提交"))
	return w, p.Refresh(ctx)
}

// UpdateBankAccount 不做格式校验，直接覆盖
func (p *BalancePanel) UpdateBankAccount(ctx context.Context, account string) error {
	profile, err := p.store.UpdateBankAccount(ctx, account)
	if err != nil {
		p.notifier.Notify(failure("更新收款账户失败", err))
		return err
	}
	p.mu.Lock()
	p.state.BankAccount = profile.BankAccount
	p.mu.Unlock()
	p.notifier.Notify(success("收款账户已更新"))
	return nil
}

func (p *BalancePanel) Snapshot() BalanceState {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	if s.Balance != nil {
		b := *s.Balance
		s.Balance = &b
	}
	return s
}
