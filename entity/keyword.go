package entity

// Actor type keywords from the base game master file.
const (
	KeywordActorTypeNPC              FormID = 0x00013794
	KeywordActorTypeUndead           FormID = 0x00013795
	KeywordActorTypeDragon           FormID = 0x00013796
	KeywordActorTypeGiant            FormID = 0x00013797
	KeywordActorTypeDwarvenAutomaton FormID = 0x00013798
)

// LargeArchetypeKeywords are keywords of creatures too big to be shoved.
var LargeArchetypeKeywords = [...]FormID{
	KeywordActorTypeDragon,
	KeywordActorTypeGiant,
	KeywordActorTypeDwarvenAutomaton,
}

// HumanoidKeywords are keywords of creatures that may be shoved without an explicit allow list.
var HumanoidKeywords = [...]FormID{
	KeywordActorTypeNPC,
	KeywordActorTypeUndead,
}
