// AngelaMos | 2026
// catalog.go

package milestone

import (
	"time"

	"github.com/breathnew/backend/internal/profile"
)

const (
	LangEN = "en"
	LangZH = "zh"
)

// Text holds the localized strings for one catalog entry.
type Text struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Milestone is a health recovery marker reached a fixed duration after
// the quit date.
type Milestone struct {
	ID    string
	After time.Duration
	Texts map[string]Text
}

func (m Milestone) Localize(lang string) Text {
	if t, ok := m.Texts[lang]; ok {
		return t
	}
	return m.Texts[LangEN]
}

// Catalog lists every milestone in ascending order of After. The engine
// relies on that ordering: the set of reached milestones is always a
// prefix of this slice.
var Catalog = []Milestone{
	{
		ID:    "bp",
		After: 20 * time.Minute,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Blood Pressure Drops",
				Description: "Your heart rate and blood pressure drop back toward normal levels.",
			},
			LangZH: {
				Title:       "血压下降",
				Description: "您的心率和血压开始恢复到正常水平。",
			},
		},
	},
	{
		ID:    "co",
		After: 12 * time.Hour,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Carbon Monoxide Clears",
				Description: "The carbon monoxide level in your blood drops to normal.",
			},
			LangZH: {
				Title:       "一氧化碳清除",
				Description: "您血液中的一氧化碳水平降至正常。",
			},
		},
	},
	{
		ID:    "heart_attack",
		After: 24 * time.Hour,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Heart Attack Risk Falls",
				Description: "Your risk of heart attack has already started to decrease.",
			},
			LangZH: {
				Title:       "心脏病风险降低",
				Description: "您的心脏病发作风险已经开始降低。",
			},
		},
	},
	{
		ID:    "senses",
		After: 48 * time.Hour,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Senses Sharpen",
				Description: "Nerve endings regrow; your senses of smell and taste improve.",
			},
			LangZH: {
				Title:       "感官变敏锐",
				Description: "神经末梢再生，您的嗅觉和味觉得到改善。",
			},
		},
	},
	{
		ID:    "nicotine",
		After: 72 * time.Hour,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Nicotine Free",
				Description: "All nicotine has left your body. Breathing feels easier as bronchial tubes relax.",
			},
			LangZH: {
				Title:       "尼古丁清零",
				Description: "尼古丁已完全排出体外，支气管放松，呼吸更轻松。",
			},
		},
	},
	{
		ID:    "energy",
		After: 14 * 24 * time.Hour,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Energy Returns",
				Description: "Circulation improves and physical activity becomes noticeably easier.",
			},
			LangZH: {
				Title:       "精力恢复",
				Description: "血液循环改善，体力活动明显变得轻松。",
			},
		},
	},
	{
		ID:    "cough",
		After: 30 * 24 * time.Hour,
		Texts: map[string]Text{
			LangEN: {
				Title:       "Lungs Recover",
				Description: "Coughing and shortness of breath decrease as your lungs begin to heal.",
			},
			LangZH: {
				Title:       "肺部恢复",
				Description: "随着肺部开始愈合，咳嗽和气短逐渐减少。",
			},
		},
	},
}

// Achievement is a gamified badge unlocked by a predicate over the
// profile and its derived stats.
type Achievement struct {
	ID       string
	Texts    map[string]Text
	Unlocked func(p *profile.Profile, stats profile.Stats) bool
}

func (a Achievement) Localize(lang string) Text {
	if t, ok := a.Texts[lang]; ok {
		return t
	}
	return a.Texts[LangEN]
}

var Achievements = []Achievement{
	{
		ID: "day1",
		Texts: map[string]Text{
			LangEN: {Title: "First Day", Description: "One full day smoke-free."},
			LangZH: {Title: "第一天", Description: "整整一天没有吸烟。"},
		},
		Unlocked: func(_ *profile.Profile, stats profile.Stats) bool {
			return stats.DaysSmokeFree >= 1
		},
	},
	{
		ID: "week1",
		Texts: map[string]Text{
			LangEN: {Title: "One Week Strong", Description: "Seven days without a cigarette."},
			LangZH: {Title: "坚持一周", Description: "七天没有吸烟。"},
		},
		Unlocked: func(_ *profile.Profile, stats profile.Stats) bool {
			return stats.DaysSmokeFree >= 7
		},
	},
	{
		ID: "month1",
		Texts: map[string]Text{
			LangEN: {Title: "One Month Milestone", Description: "Thirty days smoke-free."},
			LangZH: {Title: "满月里程碑", Description: "三十天没有吸烟。"},
		},
		Unlocked: func(_ *profile.Profile, stats profile.Stats) bool {
			return stats.DaysSmokeFree >= 30
		},
	},
	{
		ID: "savings",
		Texts: map[string]Text{
			LangEN: {Title: "Money in the Bank", Description: "Two weeks of savings add up."},
			LangZH: {Title: "省下真金白银", Description: "两周的节省累积起来了。"},
		},
		Unlocked: func(_ *profile.Profile, stats profile.Stats) bool {
			return stats.DaysSmokeFree >= 14
		},
	},
	{
		ID: "resolute",
		Texts: map[string]Text{
			LangEN: {Title: "Resolute", Description: "Ten cravings resisted with the timer."},
			LangZH: {Title: "意志坚定", Description: "用计时器战胜了十次烟瘾。"},
		},
		Unlocked: func(p *profile.Profile, _ profile.Stats) bool {
			return p.CravingsResisted >= 10
		},
	},
}
