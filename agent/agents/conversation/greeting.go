package conversation

import (
	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/wellness"
)

const (
	ShopGreeting = "Namaste! Welcome to our voice shopping experience. I'm here to help you find the perfect products. " +
		"What would you like to browse today - mugs, clothing, stationery, or bags?"

	AdventureGreeting = "Namaste, brave explorer! I am Rajkumar Veer, the Jungle Raja. Welcome to the mystical lands of India " +
		"where ancient spirits whisper in the jungle breeze. Where shall our journey begin - the peaceful village or the mysterious jungle?"
)

// greeting is the opening line spoken before the user says anything.
func greeting(agentType contractx.AgentType, pastRef string) string {
	switch agentType {
	case contractx.AgentTypeShop:
		return ShopGreeting
	case contractx.AgentTypeAdventure:
		return AdventureGreeting
	case contractx.AgentTypeWellness:
		if pastRef == "" || pastRef == wellness.FirstCheckinReference {
			return "Hi there! " + wellness.FirstCheckinReference + " How are you feeling today?"
		}
		return "Hi there, good to hear from you again. " + pastRef
	default:
		return ""
	}
}
