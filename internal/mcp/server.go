// Package mcp exposes the message-store tools over the Model Context
// Protocol's stdio transport.
package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/matheus3301/wamcp/internal/bridge"
	"github.com/matheus3301/wamcp/internal/store"
	"go.uber.org/zap"
)

// Tool name constants.
const (
	ToolListMessages           = "list_messages"
	ToolGetMessageContext      = "get_message_context"
	ToolListChats              = "list_chats"
	ToolSearchContacts         = "search_contacts"
	ToolGetContactChats        = "get_contact_chats"
	ToolGetLastInteraction     = "get_last_interaction"
	ToolGetChat                = "get_chat"
	ToolGetDirectChatByContact = "get_direct_chat_by_contact"
	ToolSendMessage            = "send_message"
	ToolSendFile               = "send_file"
	ToolSendAudioMessage       = "send_audio_message"
	ToolDownloadMedia          = "download_media"
)

// Common argument helpers for recurring tool option definitions.

func withLimit(defaultDesc string) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description("Maximum results per page (default "+defaultDesc+", capped at 100)"),
	)
}

func withPage() mcp.ToolOption {
	return mcp.WithNumber("page",
		mcp.Description("Zero-based page index (default 0)"),
	)
}

// Server wraps the MCP server exposing the WhatsApp store and bridge tools.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// New creates the server and registers every tool.
func New(db *store.DB, bc *bridge.Client, logger *zap.Logger) *Server {
	s := server.NewMCPServer(
		"wamcp",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	h := &handlers{db: db, bridge: bc, logger: logger}

	s.AddTool(listMessagesTool(), h.listMessages)
	s.AddTool(getMessageContextTool(), h.getMessageContext)
	s.AddTool(listChatsTool(), h.listChats)
	s.AddTool(searchContactsTool(), h.searchContacts)
	s.AddTool(getContactChatsTool(), h.getContactChats)
	s.AddTool(getLastInteractionTool(), h.getLastInteraction)
	s.AddTool(getChatTool(), h.getChat)
	s.AddTool(getDirectChatByContactTool(), h.getDirectChatByContact)
	s.AddTool(sendMessageTool(), h.sendMessage)
	s.AddTool(sendFileTool(), h.sendFile)
	s.AddTool(sendAudioMessageTool(), h.sendAudioMessage)
	s.AddTool(downloadMediaTool(), h.downloadMedia)

	return &Server{mcp: s, logger: logger}
}

// Serve runs the stdio transport. It blocks until stdin is closed or the
// context is cancelled. stdout carries the protocol; nothing else may write
// to it.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server starting")
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func listMessagesTool() mcp.Tool {
	return mcp.NewTool(ToolListMessages,
		mcp.WithDescription("Get WhatsApp messages matching the given criteria, rendered as text with optional surrounding context per match."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("after",
			mcp.Description("Only messages strictly after this ISO-8601 timestamp"),
		),
		mcp.WithString("before",
			mcp.Description("Only messages strictly before this ISO-8601 timestamp"),
		),
		mcp.WithString("sender_phone_number",
			mcp.Description("Only messages from this exact sender phone number"),
		),
		mcp.WithString("chat_jid",
			mcp.Description("Only messages in this chat"),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring to match in message content"),
		),
		withLimit("20"),
		withPage(),
		mcp.WithBoolean("include_context",
			mcp.Description("Expand each match with surrounding messages (default true)"),
		),
		mcp.WithNumber("context_before",
			mcp.Description("Messages to include before each match (default 1)"),
		),
		mcp.WithNumber("context_after",
			mcp.Description("Messages to include after each match (default 1)"),
		),
	)
}

func getMessageContextTool() mcp.Tool {
	return mcp.NewTool(ToolGetMessageContext,
		mcp.WithDescription("Get the chronological context around a specific message: the target plus the messages immediately before and after it in the same chat."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("ID of the target message"),
		),
		mcp.WithNumber("before",
			mcp.Description("Messages to include before the target (default 5)"),
		),
		mcp.WithNumber("after",
			mcp.Description("Messages to include after the target (default 5)"),
		),
	)
}

func listChatsTool() mcp.Tool {
	return mcp.NewTool(ToolListChats,
		mcp.WithDescription("Get WhatsApp chats matching the given criteria."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring to match in chat names"),
		),
		withLimit("20"),
		withPage(),
		mcp.WithBoolean("include_last_message",
			mcp.Description("Include the last-message summary per chat (default true)"),
		),
		mcp.WithString("sort_by",
			mcp.Description(`Sort order: "last_active" (default) or "name"`),
		),
	)
}

func searchContactsTool() mcp.Tool {
	return mcp.NewTool(ToolSearchContacts,
		mcp.WithDescription("Search WhatsApp contacts by name or phone number substring. Returns at most 50 matches."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term matched against contact names and phone numbers"),
		),
	)
}

func getContactChatsTool() mcp.Tool {
	return mcp.NewTool(ToolGetContactChats,
		mcp.WithDescription("Get all chats involving the contact: groups they have sent messages in plus their direct chat."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("jid",
			mcp.Required(),
			mcp.Description("The contact's JID (e.g. '1234567890@s.whatsapp.net')"),
		),
		withLimit("20"),
		withPage(),
	)
}

func getLastInteractionTool() mcp.Tool {
	return mcp.NewTool(ToolGetLastInteraction,
		mcp.WithDescription("Get the most recent message involving the contact, rendered as text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("jid",
			mcp.Required(),
			mcp.Description("The contact's JID"),
		),
	)
}

func getChatTool() mcp.Tool {
	return mcp.NewTool(ToolGetChat,
		mcp.WithDescription("Get chat metadata by JID."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("chat_jid",
			mcp.Required(),
			mcp.Description("The chat's JID"),
		),
		mcp.WithBoolean("include_last_message",
			mcp.Description("Include the last-message summary (default true)"),
		),
	)
}

func getDirectChatByContactTool() mcp.Tool {
	return mcp.NewTool(ToolGetDirectChatByContact,
		mcp.WithDescription("Find the one-to-one chat with a phone number. Group chats are excluded."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("sender_phone_number",
			mcp.Required(),
			mcp.Description("The contact's phone number"),
		),
	)
}

func sendMessageTool() mcp.Tool {
	return mcp.NewTool(ToolSendMessage,
		mcp.WithDescription("Send a WhatsApp text message to a person or group via the bridge."),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description("Phone number with country code (no + or symbols) or a full JID for groups"),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The message text to send"),
		),
	)
}

func sendFileTool() mcp.Tool {
	return mcp.NewTool(ToolSendFile,
		mcp.WithDescription("Send a local file (image, video, document, raw audio) via WhatsApp."),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description("Phone number with country code or a full JID"),
		),
		mcp.WithString("media_path",
			mcp.Required(),
			mcp.Description("Absolute path of the file to send"),
		),
	)
}

func sendAudioMessageTool() mcp.Tool {
	return mcp.NewTool(ToolSendAudioMessage,
		mcp.WithDescription("Send an audio file as a playable WhatsApp voice note. The file must be opus audio in an .ogg container."),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description("Phone number with country code or a full JID"),
		),
		mcp.WithString("media_path",
			mcp.Required(),
			mcp.Description("Absolute path of the .ogg file to send"),
		),
	)
}

func downloadMediaTool() mcp.Tool {
	return mcp.NewTool(ToolDownloadMedia,
		mcp.WithDescription("Download the media attached to a message and get its local path."),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("ID of the message carrying the media"),
		),
		mcp.WithString("chat_jid",
			mcp.Required(),
			mcp.Description("JID of the chat containing the message"),
		),
	)
}
