package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	mongotx "roomly/pkg/db/mongo"
	"roomly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	RoomsCollection     = "Rooms"
	CustomersCollection = "Customers"
	BookingsCollection  = "Bookings"
	CountersCollection  = "Counters"
)

// caseInsensitive makes name comparisons ignore case, for both the unique
// indexes and the duplicate lookups that must use the same collation.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

type MongoConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoStore struct {
	cfg       MongoConfig
	client    *mongo.Client
	rooms     *mongo.Collection
	customers *mongo.Collection
	bookings  *mongo.Collection
	counters  *mongo.Collection
	txManager mongotx.TransactionManager
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func NewMongoStore(client *mongo.Client, database string, cfg MongoConfig) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		cfg:       cfg,
		client:    client,
		rooms:     db.Collection(RoomsCollection),
		customers: db.Collection(CustomersCollection),
		bookings:  db.Collection(BookingsCollection),
		counters:  db.Collection(CountersCollection),
		txManager: mongotx.NewTransactionManager(client),
	}
}

// EnsureIndexes creates the unique indexes backing the name and booking key
// invariants. It is safe to call on every start.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	nameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetCollation(caseInsensitive),
	}
	if _, err := s.rooms.Indexes().CreateOne(ctx, nameIndex); err != nil {
		return fmt.Errorf("failed to create room name index: %w", err)
	}
	if _, err := s.customers.Indexes().CreateOne(ctx, nameIndex); err != nil {
		return fmt.Errorf("failed to create customer name index: %w", err)
	}

	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "room_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "customer_name", Value: 1}, {Key: "room_name", Value: 1}},
		},
	}
	if _, err := s.bookings.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without breaking transaction semantics.
func (s *MongoStore) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *MongoStore) nextID(ctx context.Context, collection string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", collection, err)
	}
	return c.Seq, nil
}

func (s *MongoStore) nameTaken(ctx context.Context, collection *mongo.Collection, name string) (bool, error) {
	opts := options.Count().SetCollation(caseInsensitive).SetLimit(1)
	n, err := collection.CountDocuments(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return false, fmt.Errorf("failed to check name: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) CreateRoom(ctx context.Context, room *model.Room) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	taken, err := s.nameTaken(ctx, s.rooms, room.Name)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	id, err := s.nextID(ctx, RoomsCollection)
	if err != nil {
		return err
	}
	room.ID = id

	if _, err := s.rooms.InsertOne(ctx, room); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *MongoStore) ListRooms(ctx context.Context) ([]*model.Room, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	rooms := make([]*model.Room, 0)
	if err := s.findAll(ctx, s.rooms, bson.M{}, &rooms); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *MongoStore) FindRoomByID(ctx context.Context, id int64) (*model.Room, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	if err := s.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (s *MongoStore) MarkRoomBooked(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	result, err := s.rooms.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_booked": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	taken, err := s.nameTaken(ctx, s.customers, customer.Name)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateName
	}

	id, err := s.nextID(ctx, CustomersCollection)
	if err != nil {
		return err
	}
	customer.ID = id

	if _, err := s.customers.InsertOne(ctx, customer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (s *MongoStore) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	customers := make([]*model.Customer, 0)
	if err := s.findAll(ctx, s.customers, bson.M{}, &customers); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *MongoStore) FindCustomerByName(ctx context.Context, name string) (*model.Customer, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var customer model.Customer
	if err := s.customers.FindOne(ctx, bson.M{"name": name}).Decode(&customer); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (s *MongoStore) AppendBooking(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	id, err := s.nextID(ctx, BookingsCollection)
	if err != nil {
		return err
	}
	booking.ID = id

	if _, err := s.bookings.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (s *MongoStore) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.FindBookings(ctx, BookingFilter{})
}

func (s *MongoStore) FindBookings(ctx context.Context, filter BookingFilter) ([]*model.Booking, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	bookings := make([]*model.Booking, 0)
	if err := s.findAll(ctx, s.bookings, buildBookingFilter(filter), &bookings); err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return bookings, nil
}

func buildBookingFilter(filter BookingFilter) bson.M {
	query := bson.M{}
	if filter.RoomID != nil {
		query["room_id"] = *filter.RoomID
	}
	if filter.CustomerName != nil {
		query["customer_name"] = *filter.CustomerName
	}
	if filter.RoomName != nil {
		query["room_name"] = *filter.RoomName
	}
	return query
}

func (s *MongoStore) FindBookingByKey(ctx context.Context, key string) (*model.Booking, error) {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	if err := s.bookings.FindOne(ctx, bson.M{"booking_key": key}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (s *MongoStore) findAll(ctx context.Context, collection *mongo.Collection, filter bson.M, out any) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func (s *MongoStore) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

var _ Store = (*MongoStore)(nil)
