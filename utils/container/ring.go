package container

// Ring 固定容量的环形缓冲区
// 功能：以显式的队头、队尾下标和元素计数实现FIFO队列
// 说明：容量在创建时确定，不会扩容；满时拒绝写入
type Ring[T any] struct {
	data []T // 存储区
	head int // 队头下标（最早写入的元素）
	tail int // 下一个写入位置
	size int // 元素个数
}

// NewRing 创建环形缓冲区
// 参数：capacity-容量，必须为正数
// 返回：新创建的环形缓冲区指针
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("container: ring capacity must be positive")
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Len 获取元素个数
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap 获取容量
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Full 判断是否已满
func (r *Ring[T]) Full() bool {
	return r.size == len(r.data)
}

// PushBack 在队尾写入元素
// 功能：队列未满时写入并推进队尾下标
// 参数：v-要写入的元素
// 返回：true表示写入成功，false表示队列已满且未做修改
func (r *Ring[T]) PushBack(v T) bool {
	if r.Full() {
		return false
	}
	r.data[r.tail] = v
	r.tail = (r.tail + 1) % len(r.data)
	r.size++
	return true
}

// Front 查看队头元素
// 返回：队头元素，队列为空时ok为false
func (r *Ring[T]) Front() (v T, ok bool) {
	if r.size == 0 {
		return v, false
	}
	return r.data[r.head], true
}

// PopFront 移除并返回队头元素
// 返回：队头元素，队列为空时ok为false
func (r *Ring[T]) PopFront() (v T, ok bool) {
	if r.size == 0 {
		return v, false
	}
	var zero T
	v = r.data[r.head]
	r.data[r.head] = zero
	r.head = (r.head + 1) % len(r.data)
	r.size--
	return v, true
}

// Values 按从队头到队尾的顺序返回所有元素
func (r *Ring[T]) Values() []T {
	values := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		values[i] = r.data[(r.head+i)%len(r.data)]
	}
	return values
}
