// Package fallback decides which upstream calls a chat request makes and
// which reply or error it reports.
//
// The chain is a small state machine:
//
//	Start --instruct_model--> TryGeneration
//	Start --chat_model------> TryChat
//	TryChat --succeeded--> Done
//	TryChat --failed-----> TryGeneration
//	TryGeneration --succeeded|failed--> Done
//	TryGeneration --swappable---------> TrySwappedInstructGeneration
//	TrySwappedInstructGeneration --succeeded|failed--> Done
//
// Each state except Start makes exactly one call through a Caller, so a
// request never makes more than three calls. A Granite chat model whose chat
// and generation calls both fail with model_not_supported is retried once
// with its instruct variant, and the result reports that model as UsedModel.
package fallback
