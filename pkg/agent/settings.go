package agent

// Audio defaults for the browser microphone and speaker paths.
const (
	MicSampleRate     = 48000
	SpeakerSampleRate = 16000
)

type SettingsMessage struct {
	Type  string      `json:"type"`
	Audio AudioConfig `json:"audio"`
	Agent AgentConfig `json:"agent"`
}

type AudioConfig struct {
	Input  AudioInput  `json:"input"`
	Output AudioOutput `json:"output"`
}

type AudioInput struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

type AudioOutput struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
	Container  string `json:"container"`
}

type AgentConfig struct {
	Language string       `json:"language"`
	Listen   ListenConfig `json:"listen"`
	Think    ThinkConfig  `json:"think"`
	Speak    SpeakConfig  `json:"speak"`
	Greeting string       `json:"greeting"`
}

type ListenConfig struct {
	Provider ListenProvider `json:"provider"`
}

type ListenProvider struct {
	Type     string   `json:"type"`
	Model    string   `json:"model"`
	Keyterms []string `json:"keyterms"`
}

type ThinkConfig struct {
	Provider  ThinkProvider    `json:"provider"`
	Prompt    string           `json:"prompt"`
	Functions []FunctionSchema `json:"functions"`
}

type ThinkProvider struct {
	Type        string  `json:"type"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
}

type SpeakConfig struct {
	Provider SpeakProvider `json:"provider"`
}

type SpeakProvider struct {
	Type  string `json:"type"`
	Model string `json:"model"`
}

type FunctionSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
}

type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

type PropertySchema struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

const driveThruPrompt = `You work taking orders at a Jack in the Box drive-thru. Follow these instructions strictly. Do not deviate:
(1) Always speak in a friendly, casual tone like a real person. Keep responses SHORT - one or two sentences max. When listing categories or items, give the complete list - NEVER use phrases like "and more" to cut it short.
(2) Never repeat the customer's order back to them unless they ask for it.
(3) If someone orders a breakfast item, ask if they would like an orange juice with that.
(4) If someone orders a small or regular, ask "Would like to make that a large?".
(5) Don't mention prices until the customer confirms that they're done ordering.
(6) Allow someone to mix and match sizes for combos.
(7) When someone orders a single burger, sandwich, or chicken item (not a combo), immediately ask "Would you like to make that a combo?"
    If YES: execute delete_item, query_items and add_item BEFORE asking "What side and drink would you like?" (SAVE itemPathKey!)
    When they specify sides/drinks: the combo is ALREADY ADDED. Only call query_modifiers + add_modifier for each side/drink.
    If NO: keep the single item and ask "Anything else?"
(8) At the end of the order, if someone has not ordered a dessert item AND has not ordered a breakfast item, ask if they would like to add a dessert.
(9) If someone changes their single item order to a combo, remove the previous single item order.
(10) Don't respond with ordered lists.
(11) COMBO RULE: for ANY combo (by name or number) call query_items ONCE + add_item ONCE, then query_modifiers + add_modifier for each side/drink. If sides/drinks were not specified, ask "What side and drink would you like?". NEVER query modifiers before add_item. NEVER add the same combo twice.
(12) Hierarchical menu browsing (ALWAYS use real Qu menu data):
    - For "what do you have?": call get_menu_categories() and list ALL categories conversationally.
    - For category queries: call get_category_items(category) and list 3-5 popular items casually.
    - For specific item queries: call query_items with the exact item name. Only confirm availability from its results.
    - Category names come directly from the Qu API and may change daily. Always use the exact names returned by get_menu_categories().
(13) Order completion flow: after asking about dessert, call submit_order_to_qu, tell them the total price, THEN ask them to drive to the window. Always give the total first.
(14) Function calling rules - EVERY TIME:
    (A) When the customer orders an item: query_items -> ALWAYS USE THE FIRST RESULT -> add_item with that itemPathKey. Results are ranked; results[0] is the best match.
    (B) For combo sides/drinks NEVER use query_items or add_item. Use query_modifiers with the combo's itemPathKey (from the add_item response) as parent, then add_modifier with the item's itemId.
    (C) To change a side or drink, do NOT delete_item the combo. Call query_modifiers for the new side/drink and add_modifier; the old one is replaced automatically.
    (D) The parent parameter of query_modifiers MUST be an itemPathKey (like "47587-56634-105606"), NEVER an itemId (UUID).
    (E) For drinks use "Mod -" items. When the customer says "coke", query "coca cola" (NOT "coke") to get "Mod - Coca Cola" instead of a Flavor Shot. Use "diet coke" for Diet Coke and "coca cola zero" for Coke Zero.
    (F) EVERY item MUST go through add_item. EVERY modifier MUST go through add_modifier. No shortcuts.
    (G) Desserts (cakes, shakes, churros) are STANDALONE items: always query_items -> add_item, never add_modifier.
(15) Combo numbers are ONLY customer shorthand, NEVER an itemPathKey. Mapping: 1 Sourdough Jack, 2 Double Jack, 3 Swiss Buttery Jack, 4 Bacon Ultimate Cheeseburger, 5 Bacon Double SmashJack, 6 Jumbo Jack / Jumbo Jack Cheeseburger, 7 Butter SmashJack, 8 Ultimate Cheeseburger, 9 Smash Jack, 10 Homestyle Chicken, 11 Cluck Chicken, 12 8 Piece Nuggets, 13 Crispy Chicken Strips (3pc/5pc), 14 Spicy Chicken / Spicy Chicken Cheese, 15 Grilled Chicken Sandwich, 16 Chicken Teriyaki Bowl, 17 Chicken Fajita Wrap, 18 Garden Salad (any variant), 19 Southwest Salad (any variant), 21 Supreme Croissant, 22 Sausage Croissant, 23 Loaded Breakfast, 24 Supreme Sourdough Breakfast, 25 Ultimate Breakfast, 26 Extreme Sausage, 27 Meat Lover Burrito, 28 3pc French Toast Platter (Bacon/Sausage), 29 6pc French Toast.
    When a customer orders "Combo #6": query_items("Jumbo Jack combo"), take results[0].itemPathKey, and call add_item with it - never with "6". itemPathKey values are dynamic; always use what query_items returns.`

// DefaultSettings is the full agent configuration sent right after the
// welcome frame.
func DefaultSettings(micSampleRate, speakerSampleRate int) *SettingsMessage {
	return &SettingsMessage{
		Type: "Settings",
		Audio: AudioConfig{
			Input: AudioInput{
				Encoding:   "linear16",
				SampleRate: micSampleRate,
			},
			Output: AudioOutput{
				Encoding:   "linear16",
				SampleRate: speakerSampleRate,
				Container:  "none",
			},
		},
		Agent: AgentConfig{
			Language: "en",
			Listen: ListenConfig{
				Provider: ListenProvider{
					Type:     "deepgram",
					Model:    "nova-3",
					Keyterms: []string{"Hi-C", "Barq's", "Coca-cola", "Coke", "Fanta", "Iced Coffee"},
				},
			},
			Think: ThinkConfig{
				Provider: ThinkProvider{
					Type:        "open_ai",
					Model:       "gpt-4o-mini",
					Temperature: 0.5,
				},
				Prompt:    driveThruPrompt,
				Functions: functionSchemas(),
			},
			Speak: SpeakConfig{
				Provider: SpeakProvider{
					Type:  "deepgram",
					Model: "aura-2-thalia-en",
				},
			},
			Greeting: "Welcome to Jack in the Box. What can I get for you today?",
		},
	}
}

func functionSchemas() []FunctionSchema {
	return []FunctionSchema{
		{
			Name:        "order",
			Description: "Call this ONLY when the customer explicitly asks to review their order (e.g., 'What's in my order?' or 'Can you repeat that?'). DO NOT call this after adding items - just continue taking the order.",
			Parameters: ParameterSchema{
				Type:       "object",
				Properties: map[string]PropertySchema{},
				Required:   []string{},
			},
		},
		{
			Name:        "query_items",
			Description: "Call this to query standalone menu items from any category. DO NOT use this for combo sides/drinks - use query_modifiers instead! This returns standalone items which cannot be added as modifiers to combos.",
			Parameters: ParameterSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"query": {
						Type:        "string",
						Description: "A query for the item the user is interested in.",
					},
					"limit": {
						Type:        "integer",
						Description: "The number of results to return. The default is 5. If it seems like the item might be found if more results are returned, specify a larger value.",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        "query_modifiers",
			Description: "Call this to query the available modifiers on items, such as sauces, sides, toppings, etc. REQUIRED for combo sides/drinks - NEVER use query_items for combo sides/drinks as it will return invalid standalone items. Always provide the parent itemPathKey. NOTE: For Coke, query 'coca cola' (NOT 'coke') to get 'Mod - Coca Cola' (the actual drink, NOT 'Flavor Shot').",
			Parameters: ParameterSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"query": {
						Type:        "string",
						Description: "A query for the modifier the user is interested in (e.g., 'curly fries', 'coca cola'). For Coke, use 'coca cola' (NOT 'coke') to get 'Mod - Coca Cola'. For Diet Coke, use 'diet coke'.",
					},
					"parent": {
						Type:        "string",
						Description: "REQUIRED. MUST be the itemPathKey (EXAMPLE format: '47587-56634-105606'), NEVER the itemId (UUID). For combos, use the combo's itemPathKey from the add_item response.",
					},
					"limit": {
						Type:        "integer",
						Description: "The number of results to return. The default is 5. If it seems like the item might be found if more results are returned, specify a larger value.",
					},
				},
				Required: []string{"query", "parent"},
			},
		},
		{
			Name:        "add_item",
			Description: "Add an item to the order. Make sure you first obtain the itemPathKey by calling the query_items function before calling this function. IMPORTANT: This returns an object with 'itemId' (UUID) and 'itemPathKey'. For COMBOS, save the itemPathKey from the response - you will need it as the 'parent' parameter when calling query_modifiers for sides/drinks.",
			Parameters: ParameterSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"itemPathKey": {
						Type:        "string",
						Description: "The unique item path key identifying the item. Format: '47587-56634-105606' (long string with dashes). NEVER use combo numbers (1, 2, 3, etc.) - only use the itemPathKey from a query_items result!",
					},
				},
				Required: []string{"itemPathKey"},
			},
		},
		{
			Name:        "delete_item",
			Description: "Deletes an item from the order. Make sure you first obtain the itemId by calling the order function before calling this function.",
			Parameters: ParameterSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"itemId": {
						Type:        "string",
						Description: "The unique item id identifying the item in the order.",
					},
				},
				Required: []string{"itemId"},
			},
		},
		{
			Name:        "add_modifier",
			Description: "Adds a modifier to an item on an order. Make sure you first obtain the itemId of the item and the itemPathKey of the modifier by calling other functions before calling this function.",
			Parameters: ParameterSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"itemPathKey": {
						Type:        "string",
						Description: "The unique item path key identifying the modifier.",
					},
					"itemId": {
						Type:        "string",
						Description: "The unique item id identifying the item in the order.",
					},
				},
				Required: []string{"itemPathKey", "itemId"},
			},
		},
		{
			Name:        "submit_order_to_qu",
			Description: "Submit the completed order to Qu API for fulfillment. Call this after the customer confirms they are done ordering and ready to complete their purchase. This will finalize the order in the Qu system.",
			Parameters: ParameterSchema{
				Type:       "object",
				Properties: map[string]PropertySchema{},
				Required:   []string{},
			},
		},
		{
			Name:        "get_menu_categories",
			Description: "Get the top-level menu categories (pre-loaded at startup for fast response). Call this ONLY for general queries like 'what do you have?' or 'what's on the menu?'. Returns a list of all available categories.",
			Parameters: ParameterSchema{
				Type:       "object",
				Properties: map[string]PropertySchema{},
				Required:   []string{},
			},
		},
		{
			Name:        "get_category_items",
			Description: "Get all items for a specific category (pre-loaded at startup for instant response). Call this for category-specific queries. Use the exact category names from the get_menu_categories() response. Much faster than query_items for browsing categories.",
			Parameters: ParameterSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"category": {
						Type:        "string",
						Description: "The category name to get items for. Use exact category names from the get_menu_categories() response (e.g., 'Breakfast', 'Lunch/Dinner', 'Snacks, Sides & Extras', 'Drinks')",
					},
				},
				Required: []string{"category"},
			},
		},
	}
}
