// Package design holds the 4 Laws build/break templates and the merge/trim
// pair that normalizes them. Merge produces a fully-populated value for
// editing; Trim strips blank fields back down before persisting, so an
// all-blank template is stored as NULL instead of an empty object.
package design

import "strings"

type BuildObvious struct {
	ClearCue                string `json:"clear_cue,omitempty"`
	VisibleTrigger          string `json:"visible_trigger,omitempty"`
	ImplementationIntention string `json:"implementation_intention,omitempty"`
}

type BuildAttractive struct {
	PairWithEnjoyment  string `json:"pair_with_enjoyment,omitempty"`
	IdentityReframe    string `json:"identity_reframe,omitempty"`
	TemptationBundling string `json:"temptation_bundling,omitempty"`
}

type BuildEasy struct {
	ReduceFriction    string `json:"reduce_friction,omitempty"`
	TwoMinuteRule     string `json:"two_minute_rule,omitempty"`
	EnvironmentDesign string `json:"environment_design,omitempty"`
}

type BuildSatisfying struct {
	ImmediateReward     string `json:"immediate_reward,omitempty"`
	TrackStreak         string `json:"track_streak,omitempty"`
	CelebrateCompletion string `json:"celebrate_completion,omitempty"`
}

// Build is the "4 laws: build this habit" template. Sections are nil when
// the stored row has nothing for them.
type Build struct {
	Obvious    *BuildObvious    `json:"obvious,omitempty"`
	Attractive *BuildAttractive `json:"attractive,omitempty"`
	Easy       *BuildEasy       `json:"easy,omitempty"`
	Satisfying *BuildSatisfying `json:"satisfying,omitempty"`
}

type BreakInvisible struct {
	RemoveCues        string `json:"remove_cues,omitempty"`
	ChangeEnvironment string `json:"change_environment,omitempty"`
	AvoidTriggers     string `json:"avoid_triggers,omitempty"`
}

type BreakUnattractive struct {
	ReframeCost       string `json:"reframe_cost,omitempty"`
	HighlightDownside string `json:"highlight_downside,omitempty"`
	NegativeIdentity  string `json:"negative_identity,omitempty"`
}

type BreakDifficult struct {
	IncreaseFriction  string `json:"increase_friction,omitempty"`
	AddSteps          string `json:"add_steps,omitempty"`
	AddAccountability string `json:"add_accountability,omitempty"`
}

type BreakUnsatisfying struct {
	ImmediateConsequence  string `json:"immediate_consequence,omitempty"`
	AccountabilityPartner string `json:"accountability_partner,omitempty"`
	LossBased             string `json:"loss_based,omitempty"`
}

// Break is the inverted template used for habits to break.
type Break struct {
	Invisible    *BreakInvisible    `json:"invisible,omitempty"`
	Unattractive *BreakUnattractive `json:"unattractive,omitempty"`
	Difficult    *BreakDifficult    `json:"difficult,omitempty"`
	Unsatisfying *BreakUnsatisfying `json:"unsatisfying,omitempty"`
}

// MergeBuild returns a complete template with every section present, so a
// form always has a value to bind to. Total: works for nil input.
func MergeBuild(b *Build) Build {
	merged := Build{
		Obvious:    &BuildObvious{},
		Attractive: &BuildAttractive{},
		Easy:       &BuildEasy{},
		Satisfying: &BuildSatisfying{},
	}
	if b == nil {
		return merged
	}
	if b.Obvious != nil {
		v := *b.Obvious
		merged.Obvious = &v
	}
	if b.Attractive != nil {
		v := *b.Attractive
		merged.Attractive = &v
	}
	if b.Easy != nil {
		v := *b.Easy
		merged.Easy = &v
	}
	if b.Satisfying != nil {
		v := *b.Satisfying
		merged.Satisfying = &v
	}
	return merged
}

// TrimBuild trims every field, drops sections that end up blank and returns
// nil when nothing survives. Idempotent.
func TrimBuild(b *Build) *Build {
	if b == nil {
		return nil
	}
	out := Build{}
	if b.Obvious != nil {
		s := BuildObvious{
			ClearCue:                strings.TrimSpace(b.Obvious.ClearCue),
			VisibleTrigger:          strings.TrimSpace(b.Obvious.VisibleTrigger),
			ImplementationIntention: strings.TrimSpace(b.Obvious.ImplementationIntention),
		}
		if s != (BuildObvious{}) {
			out.Obvious = &s
		}
	}
	if b.Attractive != nil {
		s := BuildAttractive{
			PairWithEnjoyment:  strings.TrimSpace(b.Attractive.PairWithEnjoyment),
			IdentityReframe:    strings.TrimSpace(b.Attractive.IdentityReframe),
			TemptationBundling: strings.TrimSpace(b.Attractive.TemptationBundling),
		}
		if s != (BuildAttractive{}) {
			out.Attractive = &s
		}
	}
	if b.Easy != nil {
		s := BuildEasy{
			ReduceFriction:    strings.TrimSpace(b.Easy.ReduceFriction),
			TwoMinuteRule:     strings.TrimSpace(b.Easy.TwoMinuteRule),
			EnvironmentDesign: strings.TrimSpace(b.Easy.EnvironmentDesign),
		}
		if s != (BuildEasy{}) {
			out.Easy = &s
		}
	}
	if b.Satisfying != nil {
		s := BuildSatisfying{
			ImmediateReward:     strings.TrimSpace(b.Satisfying.ImmediateReward),
			TrackStreak:         strings.TrimSpace(b.Satisfying.TrackStreak),
			CelebrateCompletion: strings.TrimSpace(b.Satisfying.CelebrateCompletion),
		}
		if s != (BuildSatisfying{}) {
			out.Satisfying = &s
		}
	}
	if out == (Build{}) {
		return nil
	}
	return &out
}

// BuildIsEmpty reports whether no field carries a non-blank value.
func BuildIsEmpty(b *Build) bool {
	return TrimBuild(b) == nil
}

// MergeBreak mirrors MergeBuild for the break template.
func MergeBreak(b *Break) Break {
	merged := Break{
		Invisible:    &BreakInvisible{},
		Unattractive: &BreakUnattractive{},
		Difficult:    &BreakDifficult{},
		Unsatisfying: &BreakUnsatisfying{},
	}
	if b == nil {
		return merged
	}
	if b.Invisible != nil {
		v := *b.Invisible
		merged.Invisible = &v
	}
	if b.Unattractive != nil {
		v := *b.Unattractive
		merged.Unattractive = &v
	}
	if b.Difficult != nil {
		v := *b.Difficult
		merged.Difficult = &v
	}
	if b.Unsatisfying != nil {
		v := *b.Unsatisfying
		merged.Unsatisfying = &v
	}
	return merged
}

// TrimBreak mirrors TrimBuild for the break template.
func TrimBreak(b *Break) *Break {
	if b == nil {
		return nil
	}
	out := Break{}
	if b.Invisible != nil {
		s := BreakInvisible{
			RemoveCues:        strings.TrimSpace(b.Invisible.RemoveCues),
			ChangeEnvironment: strings.TrimSpace(b.Invisible.ChangeEnvironment),
			AvoidTriggers:     strings.TrimSpace(b.Invisible.AvoidTriggers),
		}
		if s != (BreakInvisible{}) {
			out.Invisible = &s
		}
	}
	if b.Unattractive != nil {
		s := BreakUnattractive{
			ReframeCost:       strings.TrimSpace(b.Unattractive.ReframeCost),
			HighlightDownside: strings.TrimSpace(b.Unattractive.HighlightDownside),
			NegativeIdentity:  strings.TrimSpace(b.Unattractive.NegativeIdentity),
		}
		if s != (BreakUnattractive{}) {
			out.Unattractive = &s
		}
	}
	if b.Difficult != nil {
		s := BreakDifficult{
			IncreaseFriction:  strings.TrimSpace(b.Difficult.IncreaseFriction),
			AddSteps:          strings.TrimSpace(b.Difficult.AddSteps),
			AddAccountability: strings.TrimSpace(b.Difficult.AddAccountability),
		}
		if s != (BreakDifficult{}) {
			out.Difficult = &s
		}
	}
	if b.Unsatisfying != nil {
		s := BreakUnsatisfying{
			ImmediateConsequence:  strings.TrimSpace(b.Unsatisfying.ImmediateConsequence),
			AccountabilityPartner: strings.TrimSpace(b.Unsatisfying.AccountabilityPartner),
			LossBased:             strings.TrimSpace(b.Unsatisfying.LossBased),
		}
		if s != (BreakUnsatisfying{}) {
			out.Unsatisfying = &s
		}
	}
	if out == (Break{}) {
		return nil
	}
	return &out
}

func BreakIsEmpty(b *Break) bool {
	return TrimBreak(b) == nil
}
