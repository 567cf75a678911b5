package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ChallengesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "skate_challenges_created_total", Help: "Total challenges created"},
	)
	ChallengesJoined = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "skate_challenges_joined_total", Help: "Total challenges joined by an opponent"},
	)
	TrickAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "skate_trick_attempts_total", Help: "Total trick attempts recorded"},
		[]string{"landed"},
	)
	LettersEarned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "skate_letters_earned_total", Help: "Total letters earned"},
	)
	ChallengesCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "skate_challenges_completed_total", Help: "Total challenges completed by spelling SKATE"},
	)
	ChallengesExpired = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "skate_challenges_expired_total", Help: "Total challenges forfeited by timeout"},
	)
	RuleRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "skate_rule_rejections_total", Help: "Total actions rejected by challenge rules"},
		[]string{"code"},
	)
	UsersSynced = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "skate_users_synced_total", Help: "Total users inserted from the sync service"},
	)
)

func Register() {
	prometheus.MustRegister(
		ChallengesCreated, ChallengesJoined, TrickAttempts, LettersEarned,
		ChallengesCompleted, ChallengesExpired, RuleRejections, UsersSynced,
	)
}
