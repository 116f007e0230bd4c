package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Gacha Schema

-- 1. Gacha definitions
CREATE TABLE IF NOT EXISTS gachas (
    gacha_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    creator_id VARCHAR(255) NOT NULL,
    gacha_name VARCHAR(100) NOT NULL,
    price BIGINT NOT NULL CHECK (price >= 0),
    medal_reward BIGINT NOT NULL CHECK (medal_reward >= 0),
    status VARCHAR(20) NOT NULL DEFAULT 'inactive'
        CHECK (status IN ('active', 'inactive', 'ended')),
    start_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    end_at TIMESTAMPTZ,
    max_draws INTEGER,
    total_draws INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (max_draws IS NULL OR total_draws <= max_draws)
);

-- 2. Gacha item pools
CREATE TABLE IF NOT EXISTS gacha_items (
    gacha_item_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    gacha_id UUID NOT NULL REFERENCES gachas(gacha_id) ON DELETE CASCADE,
    item_name VARCHAR(100) NOT NULL,
    rarity VARCHAR(20) NOT NULL DEFAULT 'common'
        CHECK (rarity IN ('common', 'rare', 'epic', 'legendary')),
    drop_rate DOUBLE PRECISION NOT NULL CHECK (drop_rate >= 0),
    max_count INTEGER,
    current_count INTEGER NOT NULL DEFAULT 0 CHECK (current_count >= 0),
    CHECK (max_count IS NULL OR current_count <= max_count)
);

CREATE INDEX IF NOT EXISTS idx_gacha_items_gacha_id ON gacha_items(gacha_id);

-- 3. Draw results, one row per unit draw, immutable once committed
CREATE TABLE IF NOT EXISTS draw_results (
    draw_result_id UUID PRIMARY KEY,
    user_id VARCHAR(255) NOT NULL,
    gacha_id UUID NOT NULL REFERENCES gachas(gacha_id) ON DELETE CASCADE,
    gacha_item_id UUID NOT NULL REFERENCES gacha_items(gacha_item_id),
    price BIGINT NOT NULL,
    medal_reward BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_draw_results_user_gacha
    ON draw_results(user_id, gacha_id, created_at DESC);

-- Push Medal Ledger Schema

-- 4. Current balances. scope_id NULL is the shared pool scope.
CREATE TABLE IF NOT EXISTS push_medal_balances (
    user_id VARCHAR(255) NOT NULL,
    scope_id VARCHAR(255),
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- NULL scopes need a coalescing unique index; plain UNIQUE treats NULLs as distinct
CREATE UNIQUE INDEX IF NOT EXISTS idx_push_medal_balances_user_scope
    ON push_medal_balances(user_id, COALESCE(scope_id, ''));

-- 5. Append-only transaction log
CREATE TABLE IF NOT EXISTS push_medal_transactions (
    transaction_id UUID PRIMARY KEY,
    user_id VARCHAR(255) NOT NULL,
    scope_id VARCHAR(255),
    tx_type VARCHAR(30) NOT NULL
        CHECK (tx_type IN ('reward_grant', 'admin_adjustment', 'pool_transfer', 'refund_adjustment')),
    amount BIGINT NOT NULL CHECK (amount <> 0),
    balance_before BIGINT NOT NULL,
    balance_after BIGINT NOT NULL CHECK (balance_after = balance_before + amount),
    reference_id VARCHAR(255),
    reference_type VARCHAR(50),
    reason TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_push_medal_transactions_user_scope
    ON push_medal_transactions(user_id, COALESCE(scope_id, ''), created_at);
`
