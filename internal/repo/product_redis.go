package repo

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// RedisProductStore keeps records as JSON documents in one hash, field = key.
// Filtered scans run as a Lua script so matching happens inside Redis.
type RedisProductStore struct {
	rdb redis.UniversalClient
	key string
}

func NewRedisProductStore(rdb redis.UniversalClient, key string) *RedisProductStore {
	return &RedisProductStore{rdb: rdb, key: key}
}

// ARGV[1] is the condition count, followed by (attribute, operator, operand)
// triples. Fields are visited in sorted order.
var filterScript = redis.NewScript(`
local ids = redis.call('HKEYS', KEYS[1])
table.sort(ids)
local n = tonumber(ARGV[1])
local out = {}
for _, id in ipairs(ids) do
  local raw = redis.call('HGET', KEYS[1], id)
  local ok, doc = pcall(cjson.decode, raw)
  if ok and type(doc) == 'table' then
    local match = true
    for i = 0, n - 1 do
      local attr = ARGV[2 + i * 3]
      local op = ARGV[3 + i * 3]
      local operand = ARGV[4 + i * 3]
      local v = doc[attr]
      if op == 'eq' then
        match = type(v) == 'string' and v == operand
      elseif op == 'contains' then
        match = type(v) == 'string' and string.find(v, operand, 1, true) ~= nil
      elseif op == 'gte' then
        match = type(v) == 'number' and v >= tonumber(operand)
      elseif op == 'lte' then
        match = type(v) == 'number' and v <= tonumber(operand)
      else
        return redis.error_reply('unsupported operator ' .. op)
      end
      if not match then break end
    end
    if match then table.insert(out, raw) end
  end
end
return out
`)

func (r *RedisProductStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	all, err := r.rdb.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, wrapErr("redis", "scan", err)
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	docs := make([]string, len(keys))
	for i, k := range keys {
		docs[i] = all[k]
	}
	return decodeDocs(docs)
}

func (r *RedisProductStore) FetchFiltered(ctx context.Context, f Filter) ([]models.RawRecord, error) {
	if f.Empty() {
		return nil, wrapErr("redis", "scan", ErrEmptyFilter)
	}

	args, err := scriptArgs(f)
	if err != nil {
		return nil, wrapErr("redis", "scan", err)
	}

	docs, err := filterScript.Run(ctx, r.rdb, []string{r.key}, args...).StringSlice()
	if err != nil {
		return nil, wrapErr("redis", "scan", err)
	}
	return decodeDocs(docs)
}

func (r *RedisProductStore) Put(ctx context.Context, key string, record models.RawRecord) error {
	doc, err := encodeJSONRecord(record)
	if err != nil {
		return wrapErr("redis", "put", err)
	}
	return wrapErr("redis", "put", r.rdb.HSet(ctx, r.key, key, doc).Err())
}

func scriptArgs(f Filter) ([]any, error) {
	args := []any{len(f.Conditions)}
	for _, c := range f.Conditions {
		var op string
		switch c.Op {
		case OpEquals:
			op = "eq"
		case OpContains:
			op = "contains"
		case OpGTE:
			op = "gte"
		case OpLTE:
			op = "lte"
		default:
			return nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
		args = append(args, c.Attribute, op, c.Operand())
	}
	return args, nil
}

func decodeDocs(docs []string) ([]models.RawRecord, error) {
	records := make([]models.RawRecord, 0, len(docs))
	for _, d := range docs {
		rec, err := decodeJSONRecord([]byte(d))
		if err != nil {
			return nil, wrapErr("redis", "scan", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
