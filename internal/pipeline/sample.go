package pipeline

// SampleStory seeds the editor on first launch
const SampleStory = "We turned €10 ad spend into €300 revenue. Here's the simple framework you can copy today. " +
	"Start by defining a crystal-clear offer. Then test three creative angles per week (problem, outcome, social proof). " +
	"Sync your landing page with the ad promise. Finally, iterate weekly: kill losers, scale winners. Save this post."
