package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscription_HasAccess(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-48 * time.Hour)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "trial с датой в будущем",
			sub:  Subscription{Status: SubscriptionTrial, TrialEndsAt: &future},
			want: true,
		},
		{
			name: "trial с датой в прошлом",
			sub:  Subscription{Status: SubscriptionTrial, TrialEndsAt: &past},
			want: false,
		},
		{
			name: "trial без даты окончания",
			sub:  Subscription{Status: SubscriptionTrial},
			want: false,
		},
		{
			name: "active с датой в будущем",
			sub:  Subscription{Status: SubscriptionActive, SubscriptionEndsAt: &future},
			want: true,
		},
		{
			name: "active с датой в прошлом",
			sub:  Subscription{Status: SubscriptionActive, SubscriptionEndsAt: &past},
			want: false,
		},
		{
			name: "expired закрывает доступ независимо от дат",
			sub:  Subscription{Status: SubscriptionExpired, SubscriptionEndsAt: &future},
			want: false,
		},
		{
			name: "cancelled закрывает доступ независимо от дат",
			sub:  Subscription{Status: SubscriptionCancelled, SubscriptionEndsAt: &future, TrialEndsAt: &future},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.HasAccess(now))
		})
	}
}

func TestSubscription_DaysUntilExpiry(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("active считает от subscription_ends_at", func(t *testing.T) {
		end := now.Add(10 * 24 * time.Hour)
		sub := Subscription{Status: SubscriptionActive, SubscriptionEndsAt: &end}

		got := sub.DaysUntilExpiry(now)
		require.NotNil(t, got)
		assert.Equal(t, 10, *got)
	})

	t.Run("trial считает от trial_ends_at", func(t *testing.T) {
		end := now.Add(3 * 24 * time.Hour)
		sub := Subscription{Status: SubscriptionTrial, TrialEndsAt: &end}

		got := sub.DaysUntilExpiry(now)
		require.NotNil(t, got)
		assert.Equal(t, 3, *got)
	})

	t.Run("просроченная дата не уходит в минус", func(t *testing.T) {
		end := now.Add(-5 * 24 * time.Hour)
		sub := Subscription{Status: SubscriptionActive, SubscriptionEndsAt: &end}

		got := sub.DaysUntilExpiry(now)
		require.NotNil(t, got)
		assert.Equal(t, 0, *got)
	})

	t.Run("нет даты окончания — nil", func(t *testing.T) {
		sub := Subscription{Status: SubscriptionExpired}
		assert.Nil(t, sub.DaysUntilExpiry(now))
	})
}

func TestSubscription_View(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	end := now.Add(30 * 24 * time.Hour)

	sub := Subscription{
		ID:                 7,
		UserUID:            "550e8400-e29b-41d4-a716-446655440000",
		Status:             SubscriptionActive,
		SubscriptionEndsAt: &end,
	}

	view := sub.View(now)

	assert.Equal(t, 7, view.ID)
	assert.Equal(t, SubscriptionActive, view.Status)
	assert.True(t, view.HasAccess)
	require.NotNil(t, view.DaysUntilExpiry)
	assert.Equal(t, 30, *view.DaysUntilExpiry)
}
