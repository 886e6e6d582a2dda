package handlers

// User-facing texts. The forwarded payload deliberately carries the message
// body only: no sender id, name, or username ever reaches the recipient.
const (
	welcomeTemplate = "Hi, %s!\n\n" +
		"This is a bot for anonymous messages.\n\n" +
		"💌 Your personal link for receiving messages:\n" +
		"`%s`\n\n" +
		"Share it with friends so they can send you an anonymous message."

	statsTemplate = "📊 Your stats:\n\n" +
		"Messages received: %d\n" +
		"Subscription: %s\n" +
		"Daily message limit: %d"

	subscribedTemplate = "✅ Congratulations! Your subscription is now active.\n" +
		"Your daily message limit has been raised to %d."

	forwardTemplate = "💌 You have a new anonymous message:\n\n<i>%s</i>"

	statusSubscribed    = "✅ Active"
	statusNotSubscribed = "❌ None"

	msgInvalidLink        = "Invalid link. Please use a correct message link."
	msgSelfSend           = "You cannot send a message to yourself."
	msgTargetNotFound     = "Recipient not found."
	msgTargetLimitReached = "Unfortunately this user has reached their daily limit of anonymous messages. Try again later."
	msgPromptMessage      = "Now send your anonymous message. The recipient will not know who you are."
	msgSendSuccess        = "✅ Your anonymous message has been sent!"
	msgSendFailure        = "Could not deliver the message. The recipient may have blocked the bot."
	msgGenericError       = "Something went wrong. Please try following the link again."
	msgTextOnly           = "Only text messages can be sent anonymously."
	msgUnknownText        = "I don't recognize that. Use /start to get your personal link or /stats to view your limits."
)
