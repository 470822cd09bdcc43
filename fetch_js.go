package main

import (
	"errors"
	"fmt"
	"syscall/js"
)

type fetchResult struct {
	b   []byte
	err error
}

// fetchGet downloads path relative to the page.
func fetchGet(path string) ([]byte, error) {
	ch := make(chan fetchResult, 1)
	var onResponse, onBody, onError js.Func
	defer func() {
		onResponse.Release()
		onBody.Release()
		onError.Release()
	}()

	onError = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		ch <- fetchResult{err: errors.New("failed to fetch file")}
		return nil
	})
	onBody = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		array := js.Global().Get("Uint8Array").New(args[0])
		b := make([]byte, array.Get("byteLength").Int())
		js.CopyBytesToGo(b, array)
		ch <- fetchResult{b: b}
		return nil
	})
	onResponse = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		res := args[0]
		if !res.Get("ok").Bool() {
			ch <- fetchResult{err: fmt.Errorf("failed to fetch %s: %s", path, res.Get("statusText").String())}
			return nil
		}
		res.Call("arrayBuffer").Call("then", onBody, onError)
		return nil
	})

	js.Global().Call("fetch", path).Call("then", onResponse, onError)

	r := <-ch
	return r.b, r.err
}
