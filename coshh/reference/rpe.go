package reference

import (
	"SafetyAgents/entity"
	"strings"
)

// Assigned protection factors from HSE HSG53, lowest first.
var rpeClasses = []entity.RPEClass{
	{Name: "FFP2 disposable mask", APF: 10},
	{Name: "Half mask with P3 filter", APF: 20},
	{Name: "FFP3 disposable mask", APF: 20},
	{Name: "Full face mask with P3 filter", APF: 40},
	{Name: "Powered hood TH3", APF: 40},
	{Name: "Compressed airline breathing apparatus", APF: 200},
	{Name: "Self-contained breathing apparatus", APF: 2000},
}

// RPEClasses returns the RPE classes considered for recommendations.
func RPEClasses() []entity.RPEClass {
	return append([]entity.RPEClass(nil), rpeClasses...)
}

// SelectRPE returns the lowest-APF class whose APF meets the requirement.
// Requirements beyond every class return the highest class.
func SelectRPE(requiredAPF int) entity.RPEClass {
	for _, c := range rpeClasses {
		if c.APF >= requiredAPF {
			return c
		}
	}
	return rpeClasses[len(rpeClasses)-1]
}

var rpeAliases = []struct {
	alias string
	apf   int
}{
	{"ffp1", 4},
	{"ffp2", 10},
	{"ffp3", 20},
	{"p2", 10},
	{"p3", 20},
	{"full face", 40},
	{"th1", 10},
	{"th2", 20},
	{"th3", 40},
	{"powered", 20},
	{"airline", 200},
	{"breathing apparatus", 2000},
	{"scba", 2000},
}

// APFForDescription estimates the APF of RPE described in free text.
// It returns 0 when nothing is recognised.
func APFForDescription(text string) int {
	lower := strings.ToLower(text)
	best := 0
	for _, a := range rpeAliases {
		if strings.Contains(lower, a.alias) && a.apf > best {
			best = a.apf
		}
	}
	if strings.Contains(lower, "full face") && strings.Contains(lower, "p2") && best <= 40 {
		// full face with P2 filters is limited by the filter
		best = 10
	}
	return best
}
