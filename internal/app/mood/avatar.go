package mood

import (
	"os"
	"path/filepath"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

var descriptions = map[domain.Mood]string{
	domain.MoodHappy:     "😊 Joyful",
	domain.MoodCalm:      "😌 Serene",
	domain.MoodConfident: "😎 Assured",
	domain.MoodWorried:   "😟 Concerned",
	domain.MoodFlirty:    "😏 Playful",
	domain.MoodLoving:    "🥰 Affectionate",
	domain.MoodThinking:  "🤔 Pondering",
	domain.MoodListening: "👂 Attentive",
	domain.MoodPlayful:   "😄 Mischievous",
	domain.MoodFocused:   "🎯 Concentrated",
}

// Describe returns the badge text for m, or the bare label for unknown moods.
func Describe(m domain.Mood) string {
	if d, ok := descriptions[m]; ok {
		return d
	}
	return string(m)
}

// DefaultAvatarFiles maps each displayable mood to its asset file name.
var DefaultAvatarFiles = map[domain.Mood]string{
	domain.MoodHappy:     "tessa-happy.png",
	domain.MoodCalm:      "tessa-calm.png",
	domain.MoodConfident: "tessa-confident.png",
	domain.MoodWorried:   "tessa-worried.png",
	domain.MoodFlirty:    "tessa-flirty.png",
	domain.MoodLoving:    "tessa-loving.png",
	domain.MoodThinking:  "tessa-thinking.png",
	domain.MoodListening: "tessa-listening.png",
	domain.MoodPlayful:   "tessa-playful.png",
	domain.MoodFocused:   "tessa-focused.png",
}

// AvatarSet resolves a mood to an avatar asset. Missing assets degrade to
// calm, then happy, then nothing.
type AvatarSet struct {
	assets map[domain.Mood]string
	exists func(path string) bool
}

// NewAvatarSet builds a set whose assets live under dir and are checked on disk.
func NewAvatarSet(dir string) *AvatarSet {
	assets := make(map[domain.Mood]string, len(DefaultAvatarFiles))
	for m, f := range DefaultAvatarFiles {
		assets[m] = filepath.Join(dir, f)
	}
	return NewAvatarSetWith(assets, fileExists)
}

// NewAvatarSetWith uses an explicit table and existence check. A nil check
// accepts any non-empty path.
func NewAvatarSetWith(assets map[domain.Mood]string, exists func(string) bool) *AvatarSet {
	if exists == nil {
		exists = func(string) bool { return true }
	}
	return &AvatarSet{assets: assets, exists: exists}
}

// Resolve returns the asset for m. ok is false when neither m, calm nor
// happy has an asset and the caller must draw a placeholder.
func (a *AvatarSet) Resolve(m domain.Mood) (string, bool) {
	for _, candidate := range []domain.Mood{m, domain.MoodCalm, domain.MoodHappy} {
		if p := a.assets[candidate]; p != "" && a.exists(p) {
			return p, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
