package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/matheus3301/wamcp/internal/bridge"
	"github.com/matheus3301/wamcp/internal/format"
	"github.com/matheus3301/wamcp/internal/store"
	"go.uber.org/zap"
)

type handlers struct {
	db     *store.DB
	bridge *bridge.Client
	logger *zap.Logger
}

// toolLogger tags every log line of one tool call with the tool name and a
// fresh request id, so concurrent calls stay distinguishable in the log file.
func (h *handlers) toolLogger(tool string) *zap.Logger {
	return h.logger.With(
		zap.String("tool", tool),
		zap.String("request_id", uuid.NewString()),
	)
}

// stringArg extracts an optional string argument; absent means "".
func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// requireString extracts a required string argument.
func requireString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s parameter is required", key)
	}
	return v, nil
}

// intArg extracts an optional non-negative integer argument; JSON numbers
// arrive as float64. Absent or malformed values fall back to def.
func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key].(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return def
	}
	return int(v)
}

// boolArg extracts an optional boolean argument with a default.
func boolArg(args map[string]any, key string, def bool) bool {
	v, ok := args[key].(bool)
	if !ok {
		return def
	}
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// actionResult is the uniform payload of the outbound tools.
type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

func (h *handlers) listMessages(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolListMessages)

	f := store.MessageFilter{
		After:   stringArg(args, "after"),
		Before:  stringArg(args, "before"),
		Sender:  stringArg(args, "sender_phone_number"),
		ChatJID: stringArg(args, "chat_jid"),
		Query:   stringArg(args, "query"),
	}
	limit := intArg(args, "limit", store.DefaultLimit)
	page := intArg(args, "page", 0)

	msgs, err := h.db.ListMessages(f, limit, page)
	if err != nil {
		log.Warn("list messages failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	if boolArg(args, "include_context", true) && len(msgs) > 0 {
		msgs, err = h.db.ExpandContext(msgs,
			intArg(args, "context_before", 1),
			intArg(args, "context_after", 1))
		if err != nil {
			log.Warn("context expansion failed", zap.Error(err))
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	log.Info("listed messages", zap.Int("count", len(msgs)))
	return mcp.NewToolResultText(format.Messages(msgs, h.db, true)), nil
}

func (h *handlers) getMessageContext(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolGetMessageContext)

	id, err := requireString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	window, err := h.db.MessageContext(id,
		intArg(args, "before", 5),
		intArg(args, "after", 5))
	if err != nil {
		log.Warn("message context failed", zap.String("message_id", id), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(window)
}

func (h *handlers) listChats(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolListChats)

	chats, err := h.db.ListChats(
		stringArg(args, "query"),
		intArg(args, "limit", store.DefaultLimit),
		intArg(args, "page", 0),
		boolArg(args, "include_last_message", true),
		stringArg(args, "sort_by"),
	)
	if err != nil {
		log.Warn("list chats failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(chats)
}

func (h *handlers) searchContacts(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolSearchContacts)

	query, err := requireString(args, "query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	contacts, err := h.db.SearchContacts(query)
	if err != nil {
		log.Warn("contact search failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(contacts)
}

func (h *handlers) getContactChats(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolGetContactChats)

	jid, err := requireString(args, "jid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chats, err := h.db.GetContactChats(jid,
		intArg(args, "limit", store.DefaultLimit),
		intArg(args, "page", 0))
	if err != nil {
		log.Warn("contact chats failed", zap.String("jid", jid), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(chats)
}

func (h *handlers) getLastInteraction(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolGetLastInteraction)

	jid, err := requireString(args, "jid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg, err := h.db.LastInteraction(jid)
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return mcp.NewToolResultText(fmt.Sprintf("No messages found for %s", jid)), nil
	}
	if err != nil {
		log.Warn("last interaction failed", zap.String("jid", jid), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(format.Message(*msg, h.db, true)), nil
}

func (h *handlers) getChat(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolGetChat)

	jid, err := requireString(args, "chat_jid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chat, err := h.db.GetChat(jid, boolArg(args, "include_last_message", true))
	if err != nil {
		log.Warn("get chat failed", zap.String("chat_jid", jid), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(chat)
}

func (h *handlers) getDirectChatByContact(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolGetDirectChatByContact)

	phone, err := requireString(args, "sender_phone_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chat, err := h.db.GetDirectChatByContact(phone)
	if err != nil {
		log.Warn("direct chat lookup failed", zap.String("phone", phone), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(chat)
}

func (h *handlers) sendMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolSendMessage)

	recipient, err := requireString(args, "recipient")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	message, err := requireString(args, "message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, detail := h.bridge.SendMessage(ctx, recipient, message)
	log.Info("send message", zap.String("recipient", recipient), zap.Bool("success", ok))
	return jsonResult(actionResult{Success: ok, Message: detail})
}

func (h *handlers) sendFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolSendFile)

	recipient, err := requireString(args, "recipient")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mediaPath, err := requireString(args, "media_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, detail := h.bridge.SendFile(ctx, recipient, mediaPath)
	log.Info("send file", zap.String("recipient", recipient), zap.Bool("success", ok))
	return jsonResult(actionResult{Success: ok, Message: detail})
}

func (h *handlers) sendAudioMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolSendAudioMessage)

	recipient, err := requireString(args, "recipient")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mediaPath, err := requireString(args, "media_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, detail := h.bridge.SendVoiceNote(ctx, recipient, mediaPath)
	log.Info("send voice note", zap.String("recipient", recipient), zap.Bool("success", ok))
	return jsonResult(actionResult{Success: ok, Message: detail})
}

func (h *handlers) downloadMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	log := h.toolLogger(ToolDownloadMedia)

	messageID, err := requireString(args, "message_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chatJID, err := requireString(args, "chat_jid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ok, detail := h.bridge.DownloadMedia(ctx, messageID, chatJID)
	log.Info("download media", zap.String("message_id", messageID), zap.Bool("success", ok))
	if !ok {
		return jsonResult(actionResult{Success: false, Message: detail})
	}
	return jsonResult(actionResult{Success: true, Path: detail})
}
