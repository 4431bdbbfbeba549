// Package watsonx is the client for a watsonx.ai style model service.
//
// A Client is shared by all requests. Each chat request opens a Session
// carrying the upstream settings, the bearer credential and the prompt, and
// the fallback engine drives it through Session.Call:
//
//	session := client.Session(cfg.Upstream, cred, watsonx.Prompt{
//		Directive: language.Directive(lang),
//		Message:   msg,
//	})
//	attempt := session.Call(ctx, providers.MethodChat, "ibm/granite-13b-chat-v2")
//
// Two endpoints are used. The chat endpoint takes a system message with the
// language directive and a user message. The generation endpoint takes a
// single prompt of the form "<directive>\n\nHuman: <message>\n\nAssistant:".
//
// Responses are normalized with gjson path probing, because the service
// answers in several shapes. Generated text has the echoed prompt stripped.
// Every outcome, including transport failures and bodies that are not JSON,
// becomes a providers.Attempt; Call never returns an error.
package watsonx
