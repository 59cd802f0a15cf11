package shared

import (
	"errors"
	"math"
	"strings"
)

var ErrMoneyOverflow = errors.New("money amount overflow")

// Money 值对象 - 表示金额
type Money struct {
	amount   int64  // 以最小货币单位存储（分）
	currency string // ISO 货币代码
}

func NewMoney(amount int64, currency string) Money {
	return Money{amount: amount, currency: strings.ToUpper(currency)}
}

// MoneyFromFloat 把以元为单位的金额四舍五入到分
func MoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(int64(math.Round(amount*100)), currency)
}

func Zero(currency string) Money { return NewMoney(0, currency) }

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) Float() float64   { return float64(m.amount) / 100 }
func (m Money) IsNegative() bool { return m.amount < 0 }

// Add 金额相加，币种必须一致
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, errors.New("cannot add money with different currencies")
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, ErrMoneyOverflow
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Multiply 按数量放大，带溢出检查
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity == 0 || m.amount == 0 {
		return Money{amount: 0, currency: m.currency}, nil
	}
	q := int64(quantity)
	product := m.amount * q
	if product/q != m.amount {
		return Money{}, ErrMoneyOverflow
	}
	return Money{amount: product, currency: m.currency}, nil
}

// Percent 计算百分比金额，四舍五入到分
func (m Money) Percent(pct float64) Money {
	return Money{amount: int64(math.Round(float64(m.amount) * pct / 100)), currency: m.currency}
}

func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.amount >= other.amount
}

func (m Money) LessThan(other Money) bool {
	return m.amount < other.amount
}

func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
