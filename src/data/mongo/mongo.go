// Package mongo implements data.Store on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	colGuilds      = "guilds"
	colUsers       = "users"
	colLeagues     = "leagues"
	colLineups     = "lineups"
	colContracts   = "contracts"
	colAwards      = "awards"
	colRings       = "rings"
	colPolls       = "polls"
	colSuggestions = "suggestions"
	colCommandLogs = "command_logs"
	colSettings    = "settings"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ data.Store = (*Store)(nil)

// Open connects, pings and ensures indexes.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("lockerroom"))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	log.Info().Str("module", "store").Str("database", database).Msg("connected to MongoDB")
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := func(keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true)}
	}
	plain := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}

	indexes := map[string][]mongo.IndexModel{
		colLeagues:     {unique("guildId", "abbr")},
		colLineups:     {unique("guildId", "nameKey")},
		colContracts:   {unique("guildId", "userId")},
		colAwards:      {unique("guildId", "userId", "leagueId", "name", "season")},
		colRings:       {unique("guildId", "userId", "leagueId", "season")},
		colPolls:       {plain("messageId"), plain("guildId")},
		colCommandLogs: {plain("timestamp")},
		colGuilds:      {plain("premium")},
	}
	for col, models := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", col, err)
		}
	}
	return nil
}

func (s *Store) Driver() string { return "mongo" }

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %v", data.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection { return s.db.Collection(name) }

// translate maps driver errors onto data sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return data.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return data.ErrDuplicate
	case mongo.IsNetworkError(err) || mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", data.ErrUnavailable, err)
	default:
		return err
	}
}

func (s *Store) ListSettings(ctx context.Context) ([]data.Setting, error) {
	var out []data.Setting
	cur, err := s.col(colSettings).Find(ctx, bson.M{})
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

var upsert = options.Update().SetUpsert(true)

func (s *Store) updateGuild(ctx context.Context, guildID string, set bson.M, unset bson.M) error {
	set["updatedAt"] = time.Now()
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.col(colGuilds).UpdateOne(ctx, bson.M{"_id": guildID}, update, upsert)
	return translate(err)
}

func (s *Store) UpsertGuild(ctx context.Context, guildID, name string) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	return s.updateGuild(ctx, guildID, set, nil)
}

func (s *Store) GetGuild(ctx context.Context, guildID string) (*data.Guild, error) {
	var g data.Guild
	if err := s.col(colGuilds).FindOne(ctx, bson.M{"_id": guildID}).Decode(&g); err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) SetGuildChannel(ctx context.Context, guildID, key, channelID string) error {
	return s.updateGuild(ctx, guildID, bson.M{"channels." + key: channelID}, nil)
}

func (s *Store) SetGuildRole(ctx context.Context, guildID, key, roleID string) error {
	return s.updateGuild(ctx, guildID, bson.M{"roles." + key: roleID}, nil)
}

func (s *Store) MarkGuildSetup(ctx context.Context, guildID string) error {
	return s.updateGuild(ctx, guildID, bson.M{"setupCompleted": true}, nil)
}

func (s *Store) SetPremium(ctx context.Context, guildID string, premium bool, expiresAt *time.Time) error {
	set := bson.M{"premium": premium}
	if premium && expiresAt != nil {
		set["premiumExpiresAt"] = *expiresAt
		return s.updateGuild(ctx, guildID, set, nil)
	}
	return s.updateGuild(ctx, guildID, set, bson.M{"premiumExpiresAt": ""})
}

func (s *Store) ListPremiumGuilds(ctx context.Context) ([]data.Guild, error) {
	var out []data.Guild
	cur, err := s.col(colGuilds).Find(ctx, bson.M{"premium": true}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) UpsertUser(ctx context.Context, userID, username string) error {
	_, err := s.col(colUsers).UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"username": username, "updatedAt": time.Now()}}, upsert)
	return translate(err)
}

func (s *Store) CreateLeague(ctx context.Context, league *data.League) error {
	league.Abbr = strings.ToUpper(league.Abbr)
	if league.ID == "" {
		league.ID = uuid.NewString()
	}
	if league.CreatedAt.IsZero() {
		league.CreatedAt = time.Now()
	}
	_, err := s.col(colLeagues).InsertOne(ctx, league)
	return translate(err)
}

func (s *Store) GetLeagueByAbbr(ctx context.Context, guildID, abbr string) (*data.League, error) {
	var l data.League
	err := s.col(colLeagues).FindOne(ctx, bson.M{"guildId": guildID, "abbr": strings.ToUpper(abbr)}).Decode(&l)
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) ListLeagues(ctx context.Context, guildID string) ([]data.League, error) {
	var out []data.League
	cur, err := s.col(colLeagues).Find(ctx, bson.M{"guildId": guildID}, options.Find().SetSort(bson.D{{Key: "abbr", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteLeague(ctx context.Context, guildID, abbr string) error {
	res, err := s.col(colLeagues).DeleteOne(ctx, bson.M{"guildId": guildID, "abbr": strings.ToUpper(abbr)})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) AddAward(ctx context.Context, award *data.Award) error {
	if award.ID == "" {
		award.ID = uuid.NewString()
	}
	if award.CreatedAt.IsZero() {
		award.CreatedAt = time.Now()
	}
	_, err := s.col(colAwards).InsertOne(ctx, award)
	return translate(err)
}

func (s *Store) AddRing(ctx context.Context, ring *data.Ring) error {
	if ring.ID == "" {
		ring.ID = uuid.NewString()
	}
	if ring.CreatedAt.IsZero() {
		ring.CreatedAt = time.Now()
	}
	_, err := s.col(colRings).InsertOne(ctx, ring)
	return translate(err)
}

func (s *Store) ListAwards(ctx context.Context, guildID, userID string) ([]data.Award, error) {
	var out []data.Award
	cur, err := s.col(colAwards).Find(ctx, bson.M{"guildId": guildID, "userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) ListRings(ctx context.Context, guildID, userID string) ([]data.Ring, error) {
	var out []data.Ring
	cur, err := s.col(colRings).Find(ctx, bson.M{"guildId": guildID, "userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func lineupFilter(guildID, name string) bson.M {
	return bson.M{"guildId": guildID, "nameKey": strings.ToLower(name)}
}

func (s *Store) CreateLineup(ctx context.Context, lineup *data.Lineup) error {
	lineup.NameKey = strings.ToLower(lineup.Name)
	if lineup.ID == "" {
		lineup.ID = uuid.NewString()
	}
	if lineup.Players == nil {
		lineup.Players = []data.LineupPlayer{}
	}
	now := time.Now()
	lineup.CreatedAt, lineup.UpdatedAt = now, now
	_, err := s.col(colLineups).InsertOne(ctx, lineup)
	return translate(err)
}

func (s *Store) GetLineup(ctx context.Context, guildID, name string) (*data.Lineup, error) {
	var l data.Lineup
	if err := s.col(colLineups).FindOne(ctx, lineupFilter(guildID, name)).Decode(&l); err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) ListLineups(ctx context.Context, guildID string) ([]data.Lineup, error) {
	var out []data.Lineup
	cur, err := s.col(colLineups).Find(ctx, bson.M{"guildId": guildID}, options.Find().SetSort(bson.D{{Key: "nameKey", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteLineup(ctx context.Context, guildID, name string) error {
	res, err := s.col(colLineups).DeleteOne(ctx, lineupFilter(guildID, name))
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

// AddLineupPlayer pushes atomically; the filter rejects duplicates and full
// lineups, and a follow-up read explains a non-match.
func (s *Store) AddLineupPlayer(ctx context.Context, guildID, name string, player data.LineupPlayer, max int) error {
	filter := lineupFilter(guildID, name)
	filter["players.userId"] = bson.M{"$ne": player.UserID}
	if max > 0 {
		filter["players."+strconv.Itoa(max-1)] = bson.M{"$exists": false}
	}
	res, err := s.col(colLineups).UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"players": player},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	l, err := s.GetLineup(ctx, guildID, name)
	if err != nil {
		return err
	}
	for _, p := range l.Players {
		if p.UserID == player.UserID {
			return data.ErrDuplicate
		}
	}
	return data.ErrLineupFull
}

func (s *Store) RemoveLineupPlayer(ctx context.Context, guildID, name, userID string) error {
	filter := lineupFilter(guildID, name)
	filter["players.userId"] = userID
	res, err := s.col(colLineups).UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"players": bson.M{"userId": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) SetLineupPosition(ctx context.Context, guildID, name, userID, position string) error {
	filter := lineupFilter(guildID, name)
	filter["players.userId"] = userID
	res, err := s.col(colLineups).UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"players.$.position": position, "updatedAt": time.Now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) AddContract(ctx context.Context, c *data.Contract) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.col(colContracts).InsertOne(ctx, c)
	return translate(err)
}

func (s *Store) GetContract(ctx context.Context, guildID, userID string) (*data.Contract, error) {
	var c data.Contract
	if err := s.col(colContracts).FindOne(ctx, bson.M{"guildId": guildID, "userId": userID}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) ListContracts(ctx context.Context, guildID string) ([]data.Contract, error) {
	var out []data.Contract
	cur, err := s.col(colContracts).Find(ctx, bson.M{"guildId": guildID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) RemoveContract(ctx context.Context, guildID, userID string) error {
	res, err := s.col(colContracts).DeleteOne(ctx, bson.M{"guildId": guildID, "userId": userID})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) setContract(ctx context.Context, guildID, userID string, set bson.M) error {
	res, err := s.col(colContracts).UpdateOne(ctx, bson.M{"guildId": guildID, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) SetContractPaid(ctx context.Context, guildID, userID string, paid bool) error {
	return s.setContract(ctx, guildID, userID, bson.M{"paid": paid})
}

func (s *Store) SetContractMessage(ctx context.Context, guildID, userID, channelID, messageID string) error {
	return s.setContract(ctx, guildID, userID, bson.M{"channelId": channelID, "messageId": messageID})
}

func (s *Store) CreatePoll(ctx context.Context, p *data.PollRecord) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := s.col(colPolls).InsertOne(ctx, p)
	return translate(err)
}

func (s *Store) GetPoll(ctx context.Context, id string) (*data.PollRecord, error) {
	var p data.PollRecord
	if err := s.col(colPolls).FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) SavePollResponses(ctx context.Context, id string, responses [][]string) error {
	res, err := s.col(colPolls).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"responses": responses, "updatedAt": time.Now()}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) SetPollMessage(ctx context.Context, id, channelID, messageID string) error {
	res, err := s.col(colPolls).UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"channelId": channelID, "messageId": messageID, "updatedAt": time.Now()}})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePoll(ctx context.Context, id string) error {
	res, err := s.col(colPolls).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (s *Store) CreateSuggestion(ctx context.Context, sg *data.Suggestion) error {
	if sg.ID == "" {
		sg.ID = uuid.NewString()
	}
	if sg.CreatedAt.IsZero() {
		sg.CreatedAt = time.Now()
	}
	_, err := s.col(colSuggestions).InsertOne(ctx, sg)
	return translate(err)
}

func (s *Store) LogCommand(ctx context.Context, entry *data.CommandLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.col(colCommandLogs).InsertOne(ctx, entry)
	return translate(err)
}

func (s *Store) Stats(ctx context.Context) (data.Stats, error) {
	var st data.Stats
	var err error
	if st.TotalGuilds, err = s.col(colGuilds).CountDocuments(ctx, bson.M{}); err != nil {
		return st, translate(err)
	}
	if st.PremiumGuilds, err = s.col(colGuilds).CountDocuments(ctx, bson.M{"premium": true}); err != nil {
		return st, translate(err)
	}
	if st.TotalUsers, err = s.col(colUsers).EstimatedDocumentCount(ctx); err != nil {
		return st, translate(err)
	}
	if st.TotalCommands, err = s.col(colCommandLogs).EstimatedDocumentCount(ctx); err != nil {
		return st, translate(err)
	}
	return st, nil
}
