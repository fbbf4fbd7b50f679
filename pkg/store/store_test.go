package store

import (
	"context"
	"fmt"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFetchOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockColl := NewMockIMongoCollection(ctrl)
	mockResult := NewMockIMongoSingleResult(ctrl)
	s := New(mockColl)

	t.Run("success", func(t *testing.T) {
		mockColl.EXPECT().FindOne(ctx, bson.M{"id": "1"}).Return(mockResult)
		mockResult.EXPECT().Decode(gomock.Any()).Return(nil)

		out := bson.M{}
		err := s.FetchOne(ctx, bson.M{"id": "1"}, &out)
		assert.Nil(t, err)
	})

	t.Run("missing document is normalized to ErrNotFound", func(t *testing.T) {
		mockColl.EXPECT().FindOne(ctx, bson.M{"id": "none"}).Return(mockResult)
		mockResult.EXPECT().Decode(gomock.Any()).Return(mongo.ErrNoDocuments)

		out := bson.M{}
		err := s.FetchOne(ctx, bson.M{"id": "none"}, &out)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("driver error is kept in the chain", func(t *testing.T) {
		expectedErr := fmt.Errorf("socket closed")
		mockColl.EXPECT().FindOne(ctx, bson.M{"id": "1"}).Return(mockResult)
		mockResult.EXPECT().Decode(gomock.Any()).Return(expectedErr)

		out := bson.M{}
		err := s.FetchOne(ctx, bson.M{"id": "1"}, &out)
		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestApplyUpdateWithoutResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockColl := NewMockIMongoCollection(ctrl)
	mockResult := NewMockIMongoUpdateResult(ctrl)
	s := New(mockColl)

	mutation := bson.M{"$push": bson.M{"comments": "x"}}

	t.Run("matched document", func(t *testing.T) {
		mockColl.EXPECT().
			UpdateOne(ctx, bson.M{"id": "1"}, mutation, gomock.Any()).
			Return(mockResult, nil)
		mockResult.EXPECT().MatchedCount().Return(int64(1))

		err := s.ApplyUpdate(ctx, bson.M{"id": "1"}, mutation, UpdateOpts{}, nil)
		assert.Nil(t, err)
	})

	t.Run("no match without upsert is ErrNotFound", func(t *testing.T) {
		mockColl.EXPECT().
			UpdateOne(ctx, bson.M{"id": "none"}, mutation, gomock.Any()).
			Return(mockResult, nil)
		mockResult.EXPECT().MatchedCount().Return(int64(0))

		err := s.ApplyUpdate(ctx, bson.M{"id": "none"}, mutation, UpdateOpts{}, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no match with upsert is fine", func(t *testing.T) {
		mockColl.EXPECT().
			UpdateOne(ctx, bson.M{"id": "none"}, mutation, gomock.Any()).
			Return(mockResult, nil)
		mockResult.EXPECT().MatchedCount().Return(int64(0))

		err := s.ApplyUpdate(ctx, bson.M{"id": "none"}, mutation, UpdateOpts{Upsert: true}, nil)
		assert.Nil(t, err)
	})

	t.Run("driver error", func(t *testing.T) {
		expectedErr := fmt.Errorf("update_failed")
		mockColl.EXPECT().
			UpdateOne(ctx, bson.M{"id": "1"}, mutation, gomock.Any()).
			Return(nil, expectedErr)

		err := s.ApplyUpdate(ctx, bson.M{"id": "1"}, mutation, UpdateOpts{}, nil)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestApplyUpdateWithResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockColl := NewMockIMongoCollection(ctrl)
	mockResult := NewMockIMongoSingleResult(ctrl)
	s := New(mockColl)

	mutation := bson.M{"$addToSet": bson.M{"likes": "u1"}}

	t.Run("post-update document is decoded", func(t *testing.T) {
		mockColl.EXPECT().
			FindOneAndUpdate(ctx, bson.M{"id": "1"}, mutation, gomock.Any()).
			Return(mockResult)
		mockResult.EXPECT().Decode(gomock.Any()).Return(nil)

		out := bson.M{}
		err := s.ApplyUpdate(ctx, bson.M{"id": "1"}, mutation, UpdateOpts{}, &out)
		assert.Nil(t, err)
	})

	t.Run("no match is ErrNotFound", func(t *testing.T) {
		mockColl.EXPECT().
			FindOneAndUpdate(ctx, bson.M{"id": "none"}, mutation, gomock.Any()).
			Return(mockResult)
		mockResult.EXPECT().Decode(gomock.Any()).Return(mongo.ErrNoDocuments)

		out := bson.M{}
		err := s.ApplyUpdate(ctx, bson.M{"id": "none"}, mutation, UpdateOpts{}, &out)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
