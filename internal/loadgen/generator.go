package loadgen

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/internsim/internal/domain/category"
	"github.com/okian/internsim/internal/domain/types"
)

const randomFloatDivisor = 1000000

// Profile pairs a generated request with the caller it is submitted as.
type Profile struct {
	UserID  string
	Request types.SimulateRequest
}

var tiers = []string{"Tier 1", "Tier 2", "Tier 3"}

var remoteTypes = []string{"Remote", "Onsite", "Hybrid"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func pick(values []string) string {
	return values[randomInt(len(values))]
}

// GenerateProfiles creates n candidate profiles spread across every
// curated role, each with its own caller id.
func GenerateProfiles(n int) []Profile {
	out := make([]Profile, n)
	for i := range out {
		out[i] = generateProfile()
	}
	return out
}

func generateProfile() Profile {
	req := types.SimulateRequest{
		Projects:     randomInt(11),
		Internships:  randomInt(6),
		CGPA:         5 + getRandomFloat()*5,
		Role:         pick(category.Roles),
		Tier:         pick(tiers),
		RemoteType:   pick(remoteTypes),
		DSA:          randomInt(11),
		Algorithms:   randomInt(11),
		SystemDesign: randomInt(11),
		React:        randomInt(11),
		Node:         randomInt(11),
		Python:       randomInt(11),
		SQL:          randomInt(11),
		ML:           randomInt(11),
		DataAnalysis: randomInt(11),
		Embedded:     randomInt(11),
	}
	// skillAvg follows the generated levels, as a client form would send it.
	skillAvg := req.ToProfile().SkillAverage()
	req.SkillAvg = &skillAvg
	return Profile{UserID: uuid.NewString(), Request: req}
}
