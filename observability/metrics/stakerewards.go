package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// StakeRewardsMetrics records the operational activity of the reward ledger.
type StakeRewardsMetrics struct {
	operations  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	totalStaked prometheus.Gauge
	rewardsPaid prometheus.Counter
	rewardRate  prometheus.Gauge
}

var (
	stakeRewardsOnce     sync.Once
	stakeRewardsRegistry *StakeRewardsMetrics
)

// StakeRewards returns the lazily-initialised reward ledger metrics registry.
func StakeRewards() *StakeRewardsMetrics {
	stakeRewardsOnce.Do(func() {
		stakeRewardsRegistry = &StakeRewardsMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stakerewards_operations_total",
				Help: "Count of committed ledger operations by kind.",
			}, []string{"op"}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stakerewards_rejections_total",
				Help: "Count of rejected ledger operations by kind.",
			}, []string{"op"}),
			totalStaked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "stakerewards_total_staked",
				Help: "Current total staked balance held by the ledger.",
			}),
			rewardsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "stakerewards_rewards_paid_total",
				Help: "Cumulative reward units paid out by claims.",
			}),
			rewardRate: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "stakerewards_reward_rate",
				Help: "Scaled reward emission rate of the active window.",
			}),
		}
		prometheus.MustRegister(
			stakeRewardsRegistry.operations,
			stakeRewardsRegistry.rejections,
			stakeRewardsRegistry.totalStaked,
			stakeRewardsRegistry.rewardsPaid,
			stakeRewardsRegistry.rewardRate,
		)
	})
	return stakeRewardsRegistry
}

// ObserveOperation counts a committed operation of the supplied kind.
func (m *StakeRewardsMetrics) ObserveOperation(op string) {
	if m == nil || op == "" {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

// ObserveRejection counts a rejected operation of the supplied kind.
func (m *StakeRewardsMetrics) ObserveRejection(op string) {
	if m == nil || op == "" {
		return
	}
	m.rejections.WithLabelValues(op).Inc()
}

// SetTotalStaked publishes the pool's current staked balance.
func (m *StakeRewardsMetrics) SetTotalStaked(value float64) {
	if m == nil {
		return
	}
	m.totalStaked.Set(value)
}

// AddRewardsPaid accumulates the payout of a successful claim.
func (m *StakeRewardsMetrics) AddRewardsPaid(value float64) {
	if m == nil || value <= 0 {
		return
	}
	m.rewardsPaid.Add(value)
}

// SetRewardRate publishes the scaled emission rate after funding.
func (m *StakeRewardsMetrics) SetRewardRate(value float64) {
	if m == nil {
		return
	}
	m.rewardRate.Set(value)
}
