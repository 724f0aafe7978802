package constants

// Centralized constants for env keys, headers, routes and shared messages.
const (
	// Environment variable keys
	EnvSessionSecret = "DWDEX_SESSION_SECRET"
	EnvConfigPath    = "DWDEX_CONFIG"
	EnvDBPath        = "DWDEX_DB"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteVersion       = "/version"
	RouteRegister      = "/participants/register"
	RouteCatalog       = "/catalog"
	RoutePlayerStats   = "/player-stats"
	RouteInventory     = "/inventory"
	RouteRewardRedeem  = "/rewards/redeem"
	RouteBonusClaim    = "/rewards/bonus"
	RouteChallenges    = "/channels/:channelID/challenge"
	RouteChallengeView = "/channels/:channelID/battle"
	RouteAccept        = "/channels/:channelID/accept"
	RouteTeamAdd       = "/channels/:channelID/team/add"
	RouteTeamRemove    = "/channels/:channelID/team/remove"
	RouteTeamBest      = "/channels/:channelID/team/best"
	RouteReady         = "/channels/:channelID/ready"
	RouteMove          = "/channels/:channelID/move"
	RouteFeed          = "/channels/:channelID/feed"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrInvalidChannelID   = "Invalid channel ID"
	ErrBattleNotFound     = "No battle in this channel"
	ErrChannelBusy        = "A battle is already running in this channel"
	ErrNotInBattle        = "You are not part of this battle"
	ErrOnCooldown         = "You are on battle cooldown"
	ErrOpponentOnCooldown = "Your opponent is on battle cooldown"
	ErrSelfChallenge      = "You cannot battle yourself"
	ErrTeamFull           = "Your team already has 3 units"
	ErrUnitNotOwned       = "Unit not found in your inventory"
	ErrUnitAlreadyPicked  = "Unit is already in your team"
	ErrNotEnoughUnits     = "You need at least 3 units to battle"
	ErrSetupExpired       = "This battle setup has expired"
	ErrNotAccepted        = "The challenge has not been accepted yet"
	ErrTeamsNotReady      = "Both teams must have 3 units and be ready"
	ErrMatchNotRunning    = "No round is currently collecting moves"
	ErrMoveAlreadySet     = "You already chose a move this round"
	ErrNoRewardAvailable  = "No reward available to claim"
	ErrBonusNotToday      = "The weekly bonus is not available today"
	ErrBonusAlreadyTaken  = "You already claimed this week's bonus"
	ErrFailedFetchStats   = "Failed to fetch stats"
	ErrFailedStoreMove    = "Failed to store move"
	ErrFailedCreateUnit   = "Failed to create unit"
	ErrAuthRequired       = "Authentication required"
	ErrInvalidSession     = "Invalid session"
)

// Logging field names
const (
	LogFieldChannelID   = "channel_id"
	LogFieldParticipant = "participant_id"
	LogFieldTurn        = "turn"
	LogFieldWinner      = "winner"
	LogFieldAddr        = "addr"
	LogFieldName        = "name"
)
