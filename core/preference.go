package core

// Preferences 是用户偏好的固定结构：四个集合（以有序切片存储，集合语义由写入方保证）。
//
// 不变量：
//   - LikedCocktails ∩ DislikedCocktails = ∅
//   - LikedIngredients ∩ DislikedIngredients = ∅
//
// 使用 NewPreferences 构造，保证四个字段均为非 nil 的空切片。
type Preferences struct {
	LikedCocktails      []string `json:"liked_cocktails"`
	DislikedCocktails   []string `json:"disliked_cocktails"`
	LikedIngredients    []string `json:"liked_ingredients"`
	DislikedIngredients []string `json:"disliked_ingredients"`
}

// NewPreferences 创建空偏好。
func NewPreferences() Preferences {
	return Preferences{
		LikedCocktails:      []string{},
		DislikedCocktails:   []string{},
		LikedIngredients:    []string{},
		DislikedIngredients: []string{},
	}
}

// EnsureDefaults 把 nil 字段替换为空切片（例如从旧记录反序列化后缺失的 key）。
func (p *Preferences) EnsureDefaults() {
	if p.LikedCocktails == nil {
		p.LikedCocktails = []string{}
	}
	if p.DislikedCocktails == nil {
		p.DislikedCocktails = []string{}
	}
	if p.LikedIngredients == nil {
		p.LikedIngredients = []string{}
	}
	if p.DislikedIngredients == nil {
		p.DislikedIngredients = []string{}
	}
}

// IsEmpty 四个集合都为空时返回 true。
func (p Preferences) IsEmpty() bool {
	return len(p.LikedCocktails) == 0 && len(p.DislikedCocktails) == 0 &&
		len(p.LikedIngredients) == 0 && len(p.DislikedIngredients) == 0
}

// MessagePair 是一轮用户/助手对话。
type MessagePair struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// UserData 是按用户 ID 存储的记录：偏好 + 最近的对话历史。
// 对话历史归会话层所有，只是和偏好放在同一条记录里。
type UserData struct {
	UserID         int64         `json:"user_id"`
	Preferences    Preferences   `json:"preferences"`
	MessageHistory []MessagePair `json:"message_history"`
}

// NewUserData 创建一条空记录（首次写入时懒创建）。
func NewUserData(userID int64) *UserData {
	return &UserData{
		UserID:         userID,
		Preferences:    NewPreferences(),
		MessageHistory: []MessagePair{},
	}
}

// AppendMessage 追加一轮对话，并只保留最近 limit 轮（最旧的先淘汰）。
// limit <= 0 表示不限制。
func (u *UserData) AppendMessage(pair MessagePair, limit int) {
	u.MessageHistory = append(u.MessageHistory, pair)
	if limit > 0 && len(u.MessageHistory) > limit {
		u.MessageHistory = append([]MessagePair(nil), u.MessageHistory[len(u.MessageHistory)-limit:]...)
	}
}
